package types

// Salary is always range shaped; a lone amount in the text is widened into a band.
type Salary struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
	PayRate  string  `json:"payRate"` // "per year", "per month" or "per hour"
}

// Record is the structured result of extracting one job description.
type Record struct {
	JobTitle         string   `json:"jobTitle"`
	CompanyName      string   `json:"companyName"`
	JobLocation      string   `json:"jobLocation"`
	JobType          []string `json:"jobType"`
	ExperienceRange  string   `json:"experienceRange"`
	Skills           []string `json:"skills"`
	Salary           Salary   `json:"salary"`
	Benefits         []string `json:"benefits"`
	EducationLevel   string   `json:"educationLevel"`
	JobCategory      string   `json:"jobCategory"`
	Priority         string   `json:"priority"`
	ClientName       string   `json:"clientName"`       // empty when not mentioned
	ReportingManager string   `json:"reportingManager"` // empty when not mentioned
	WorkAuth         []string `json:"workAuth"`
	JobDescription   string   `json:"jobDescription"`
	Responsibilities []string `json:"responsibilities"`
	Requirements     []string `json:"requirements"`
}

// Parse sources reported in ParseResult.Source
const (
	SourceRules = "rules"
	SourceAI    = "ai"
	SourceCache = "cache"
)

// ParseResult wraps a record with how it was produced
type ParseResult struct {
	Record         Record `json:"record"`
	Source         string `json:"source"`
	LibraryVersion string `json:"libraryVersion"`
	DurationMs     int64  `json:"durationMs"`
}

// PostingSalary is the salary block of the create-job payload
type PostingSalary struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
	Period   string `json:"period"` // yearly, monthly or hourly
}

// Posting is the payload sent to the job-storage service
type Posting struct {
	JobCode          string        `json:"jobCode"`
	JobTitle         string        `json:"jobTitle"`
	Company          string        `json:"company"`
	CompanyLogo      string        `json:"companyLogo,omitempty"`
	Location         string        `json:"location"`
	JobType          string        `json:"jobType"`
	Description      string        `json:"description"`
	Responsibilities string        `json:"responsibilities"`
	Requirements     string        `json:"requirements"`
	Skills           []string      `json:"skills"`
	ExperienceLevel  string        `json:"experienceLevel"`
	Salary           PostingSalary `json:"salary"`
	Benefits         []string      `json:"benefits"`
	EducationLevel   string        `json:"educationLevel"`
	JobCategory      string        `json:"jobCategory"`
	Priority         string        `json:"priority"`
	ClientName       string        `json:"clientName,omitempty"`
	ReportingManager string        `json:"reportingManager,omitempty"`
	WorkAuth         []string      `json:"workAuth"`
	PostedBy         string        `json:"postedBy,omitempty"`
	EmployerEmail    string        `json:"employerEmail,omitempty"`
	EmployerName     string        `json:"employerName,omitempty"`
	EmployerCompany  string        `json:"employerCompany,omitempty"`
}

// Employer identifies who is publishing a posting
type Employer struct {
	ID      string `json:"id,omitempty"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Company string `json:"company,omitempty"`
	LogoURL string `json:"logoUrl,omitempty"`
}

// PublishResult reports the outcome of one publisher
type PublishResult struct {
	Publisher string `json:"publisher"`
	ID        string `json:"id,omitempty"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

// ParseRequest is the body of POST /parse
type ParseRequest struct {
	Text string `json:"text"`
}

// PublishRequest is the body of POST /jobs. Either Text or Record must be set.
type PublishRequest struct {
	Text     string   `json:"text,omitempty"`
	Record   *Record  `json:"record,omitempty"`
	Employer Employer `json:"employer"`
	DryRun   bool     `json:"dryRun,omitempty"`
}

// PublishResponse is returned by POST /jobs
type PublishResponse struct {
	Posting Posting         `json:"posting"`
	Results []PublishResult `json:"results"`
}

// Sweep item statuses
const (
	SweepProcessed = "processed"
	SweepFailed    = "failed"
)

// SweepItem is the outcome for one inbox file
type SweepItem struct {
	File    string `json:"file"`
	Status  string `json:"status"`
	JobCode string `json:"jobCode,omitempty"`
	Title   string `json:"title,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SweepReport summarizes one pass over the inbox directory
type SweepReport struct {
	Dir       string      `json:"dir"`
	Processed int         `json:"processed"`
	Failed    int         `json:"failed"`
	Items     []SweepItem `json:"items"`
}
