package extract

import (
	"slices"
	"testing"
)

func TestSkills(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "dictionary order with symbol names",
			text:     "Experience with Go, Python and C++",
			expected: []string{"Python", "C++", "Go"},
		},
		{
			name:     "case insensitive",
			text:     "experience with REACT and node.js",
			expected: []string{"React", "Node.js"},
		},
		{
			name:     "loose matching inside skill sections",
			text:     "Skills: python3, AWS/GCP",
			expected: []string{"AWS", "GCP", "Python"},
		},
		{
			name:     "capped",
			text:     "Python Java Ruby Rust Swift Kotlin Scala PHP Perl MATLAB Docker Kubernetes",
			expected: []string{"Python", "Java", "PHP", "Ruby", "Rust", "Swift", "Kotlin", "Scala", "MATLAB", "Perl"},
		},
		{
			name: "repeated skill counted once among fifteen",
			text: "Python developer. Python, Java, Ruby, Rust. More Python with Swift, Kotlin, Scala. " +
				"Python scripts, PHP, Perl, MATLAB. Docker, Kubernetes, Jenkins, Terraform and Python.",
			expected: []string{"Python", "Java", "PHP", "Ruby", "Rust", "Swift", "Kotlin", "Scala", "MATLAB", "Perl"},
		},
		{
			name:     "default when nothing matches",
			text:     "Carpenter wanted",
			expected: []string{"JavaScript", "React", "Node.js"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sharedEngine.Skills(tt.text)
			if !slices.Equal(got, tt.expected) {
				t.Errorf("Skills() = %v, expected %v", got, tt.expected)
			}
			if len(got) > MaxSkills {
				t.Errorf("expected at most %d skills, got %d", MaxSkills, len(got))
			}
		})
	}
}
