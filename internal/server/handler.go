package server

import (
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"jobparser/internal/common"
	"jobparser/internal/errors"
	"jobparser/internal/types"
)

// parseHandler serves POST /parse
func (s *Server) parseHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.Observability.Tracer("jobparser.api").Start(r.Context(), "api.parse")
	defer span.End()

	var req ParseRequest
	if err := parseJSONRequest(r, &req); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.type", "validation"))
		s.writeError(w, r, "Invalid request body", err)
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		err := errors.NewValidationError(errors.ErrCodeInvalidRequest, "text field is required", nil)
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.type", "validation"))
		s.writeError(w, r, "Missing job description", err)
		return
	}
	if err := common.ValidateText(req.Text, 0); err != nil {
		span.RecordError(err)
		s.writeError(w, r, "Invalid job description", err)
		return
	}

	span.SetAttributes(
		attribute.Int("request.text_length", len(req.Text)),
		attribute.String("request.id", requestIDFrom(ctx)),
	)

	result, err := s.Service.Parse(ctx, req.Text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.writeError(w, r, "Failed to parse job description", err)
		return
	}

	span.SetAttributes(
		attribute.String("parse.source", result.Source),
		attribute.String("library.version", result.LibraryVersion),
	)
	s.writeJSON(w, http.StatusOK, result)
}

// publishHandler serves POST /jobs. A real publish answers 201, a dry run 200.
func (s *Server) publishHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.Observability.Tracer("jobparser.api").Start(r.Context(), "api.publish")
	defer span.End()

	var req types.PublishRequest
	if err := parseJSONRequest(r, &req); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.type", "validation"))
		s.writeError(w, r, "Invalid request body", err)
		return
	}
	if req.Record == nil {
		if err := common.ValidateText(req.Text, 0); err != nil {
			span.RecordError(err)
			s.writeError(w, r, "Invalid job description", err)
			return
		}
	}

	span.SetAttributes(
		attribute.Int("request.text_length", len(req.Text)),
		attribute.Bool("request.has_record", req.Record != nil),
		attribute.Bool("request.dry_run", req.DryRun),
		attribute.String("request.id", requestIDFrom(ctx)),
	)

	resp, err := s.Service.Publish(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.writeError(w, r, "Failed to publish job", err)
		return
	}

	span.SetAttributes(
		attribute.String("job.code", resp.Posting.JobCode),
		attribute.Int("publish.results", len(resp.Results)),
	)

	status := http.StatusCreated
	if req.DryRun {
		status = http.StatusOK
	}
	s.writeJSON(w, status, resp)
}
