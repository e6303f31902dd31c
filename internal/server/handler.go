package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	appErrors "skillscan/internal/errors"
	"skillscan/internal/export"
	"skillscan/internal/extractor"
	"skillscan/internal/quiz"
	"skillscan/internal/types"
	"skillscan/internal/utils"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleParse saves the uploaded résumé and returns its name and skills
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.Observability.Tracer("skillscan.api").Start(r.Context(), "api.parse")
	defer span.End()
	r = r.WithContext(ctx)

	profile, ok := s.parseUpload(w, r, span)
	if !ok {
		return
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("skills.count", len(profile.Skills)),
	)
	writeJSON(w, http.StatusOK, profile)
}

// handleCreateQuiz builds a quiz from a JSON skill list or an uploaded
// résumé, stores it and returns it without answers
func (s *Server) handleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.Observability.Tracer("skillscan.api").Start(r.Context(), "api.quiz")
	defer span.End()
	r = r.WithContext(ctx)

	if s.Quizzes == nil {
		span.SetAttributes(attribute.String("error.type", "unavailable"))
		writeErrorResponse(w, "Quiz generation unavailable", "No AI provider is configured", http.StatusServiceUnavailable)
		return
	}

	var profile types.Profile
	if isMultipart(r) {
		var ok bool
		if profile, ok = s.parseUpload(w, r, span); !ok {
			return
		}
	} else {
		var req QuizRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}
		profile = types.Profile{Name: strings.TrimSpace(req.Name), Skills: cleanSkills(req.Skills)}
		if len(profile.Skills) == 0 {
			err := fmt.Errorf("missing skills")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing skills", "skills field is required", http.StatusBadRequest)
			return
		}
	}

	span.SetAttributes(
		attribute.Int("request.skills", len(profile.Skills)),
		attribute.String("operation", "quiz"),
	)

	built, err := s.Quizzes.Build(ctx, profile)
	s.metrics().RecordQuizGenerated(ctx, len(built.Questions), err)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.type", "quiz_generation"))
		s.Logger.LogError(err, "Quiz generation failed", "skills", len(profile.Skills))
		writeAppError(w, "Failed to generate quiz", err)
		return
	}

	s.Store.Put(built)

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.String("quiz.id", built.ID),
		attribute.Int("quiz.questions", len(built.Questions)),
	)
	w.Header().Set("Location", "/quiz/"+built.ID)
	writeJSON(w, http.StatusCreated, built.Public())
}

// handleGetQuiz returns a stored quiz without answers
func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	stored, err := s.Store.Get(r.PathValue("id"))
	if err != nil {
		writeAppError(w, "Quiz not found", err)
		return
	}
	writeJSON(w, http.StatusOK, stored.Public())
}

// handleScoreQuiz grades submitted answers against a stored quiz. With
// ?format=xlsx the graded answers are returned as a workbook.
func (s *Server) handleScoreQuiz(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.Observability.Tracer("skillscan.api").Start(r.Context(), "api.score")
	defer span.End()

	id := r.PathValue("id")
	span.SetAttributes(attribute.String("quiz.id", id))

	stored, err := s.Store.Get(id)
	if err != nil {
		span.RecordError(err)
		writeAppError(w, "Quiz not found", err)
		return
	}

	var input types.ScoreInput
	if err := parseJSONRequest(r, &input); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.type", "validation"))
		writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	result := quiz.Score(stored.Questions, input.Answers)
	s.metrics().RecordQuizScored(ctx, result.Score, result.Total)

	span.SetAttributes(
		attribute.Int("quiz.score", result.Score),
		attribute.Int("quiz.total", result.Total),
	)
	s.Logger.Info("Quiz scored",
		"quiz_id", id,
		"score", result.Score,
		"total", result.Total)

	if r.URL.Query().Get("format") == "xlsx" {
		s.writeScoreWorkbook(w, stored, result, span)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeScoreWorkbook(w http.ResponseWriter, stored types.Quiz, result types.ScoreOutput, span trace.Span) {
	wb, err := export.NewWorkbook()
	if err != nil {
		span.RecordError(err)
		writeErrorResponse(w, "Failed to create workbook", err.Error(), http.StatusInternalServerError)
		return
	}
	defer func() { _ = wb.Close() }()

	if err := wb.AddScore(stored, result); err != nil {
		span.RecordError(err)
		writeErrorResponse(w, "Failed to create workbook", err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "quiz-"+stored.ID+".xlsx"))
	if err := wb.Write(w); err != nil {
		span.RecordError(err)
		s.Logger.LogError(err, "Failed to stream workbook", "quiz_id", stored.ID)
	}
}

// parseUpload stores the multipart "file" field under UploadDir and parses
// it. On failure the error response is already written.
func (s *Server) parseUpload(w http.ResponseWriter, r *http.Request, span trace.Span) (types.Profile, bool) {
	path, status, err := s.saveUpload(r)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.type", "upload"))
		writeErrorResponse(w, "Invalid upload", err.Error(), status)
		return types.Profile{}, false
	}

	span.SetAttributes(attribute.String("file.name", filepath.Base(path)))

	profile, err := s.Parser.Parse(r.Context(), path)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.type", "extraction"))
		s.Logger.LogError(err, "Failed to parse uploaded resume", "file", path)
		writeAppError(w, "Failed to parse resume", err)
		return types.Profile{}, false
	}

	profile.File = filepath.Base(path)
	return profile, true
}

// saveUpload writes the uploaded file to UploadDir under a unique name and
// returns its path together with the status to use on failure
func (s *Server) saveUpload(r *http.Request) (string, int, error) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return "", http.StatusRequestEntityTooLarge, fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return "", http.StatusBadRequest, fmt.Errorf("failed to read multipart form: %w", err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", http.StatusBadRequest, fmt.Errorf("file field is required")
	}
	defer func() { _ = file.Close() }()

	if _, err := extractor.FormatFromPath(header.Filename); err != nil {
		return "", http.StatusUnsupportedMediaType, err
	}
	if s.MaxFileSize > 0 && header.Size > s.MaxFileSize {
		return "", http.StatusRequestEntityTooLarge, fmt.Errorf("file is %s, limit is %s",
			utils.FormatFileSize(header.Size), utils.FormatFileSize(s.MaxFileSize))
	}

	if err := os.MkdirAll(s.UploadDir, 0750); err != nil {
		return "", http.StatusInternalServerError, fmt.Errorf("failed to create upload directory: %w", err)
	}

	path := filepath.Join(s.UploadDir, utils.UploadFileName(header.Filename))
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return "", http.StatusInternalServerError, fmt.Errorf("failed to save upload: %w", err)
	}
	if _, err := io.Copy(dst, file); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return "", http.StatusInternalServerError, fmt.Errorf("failed to save upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", http.StatusInternalServerError, fmt.Errorf("failed to save upload: %w", err)
	}

	s.Logger.Debug("Upload saved",
		"original", header.Filename,
		"path", path,
		"size", header.Size)
	return path, 0, nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

func cleanSkills(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// statusForError maps domain errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case stderrors.Is(err, appErrors.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case stderrors.Is(err, appErrors.ErrExtractionFailed):
		return http.StatusUnprocessableEntity
	}

	var appErr *appErrors.AppError
	if !stderrors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case appErrors.ErrCodeQuizNotFound, appErrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case appErrors.ErrCodeNoSkillsFound:
		return http.StatusUnprocessableEntity
	case appErrors.ErrCodeAITimeout:
		return http.StatusGatewayTimeout
	}
	switch appErr.Type {
	case appErrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case appErrors.ErrorTypeAI, appErrors.ErrorTypeNetwork:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// writeAppError writes err with the status and code its type implies
func writeAppError(w http.ResponseWriter, title string, err error) {
	resp := ErrorResponse{Error: title, Message: err.Error()}

	var appErr *appErrors.AppError
	switch {
	case stderrors.As(err, &appErr):
		resp.Code = appErr.Code
		resp.Message = appErr.Message
	case stderrors.Is(err, appErrors.ErrUnsupportedFormat):
		resp.Code = appErrors.ErrCodeUnsupportedFormat
	case stderrors.Is(err, appErrors.ErrExtractionFailed):
		resp.Code = appErrors.ErrCodeExtractionFailed
	}

	writeJSON(w, statusForError(err), resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
