// seehuhn.de/go/facturx - embed and extract XML in hybrid PDF/A-3 files
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package webservice exposes the creation and extraction of hybrid
// invoices and orders over HTTP.
//
// The service has three endpoints:
//
//   - POST /generate_facturx takes the multipart fields "pdf" and "xml",
//     plus optional additional files "attachment1", "attachment2", ...,
//     and returns the hybrid PDF file.
//   - POST /extract_xml takes the multipart field "pdf" and returns the
//     embedded XML document.
//   - GET /health reports the service status.
//
// Both POST endpoints accept the form values "check_xsd" ("true" or
// "false").  Generation also accepts "flavor", "level", "order_type",
// "afrelationship", "lang" and "meta_author", "meta_title",
// "meta_subject", "meta_keywords".
package webservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"seehuhn.de/go/facturx"
	"seehuhn.de/go/facturx/attachment"
	"seehuhn.de/go/facturx/internal/buildinfo"
	"seehuhn.de/go/facturx/metadata"
	"seehuhn.de/go/facturx/profile"
)

// WarningHeader is the response header used to report the adjustments
// made while generating a document.  The header is repeated once per
// warning.
const WarningHeader = "X-Facturx-Warning"

// Server is the HTTP front end.
type Server struct {
	cfg    *Config
	logger *slog.Logger
	router chi.Router
}

// New returns a server using the given configuration.
// If logger is nil, messages are discarded.
func New(cfg *Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.health)
	r.Post("/generate_facturx", s.generate)
	r.Post("/extract_xml", s.extract)
	s.router = r

	return s, nil
}

// ServeHTTP implements the [http.Handler] interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves requests until ctx is cancelled.  Requests in
// progress get the configured shutdown timeout to complete.
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}

// Serve is like [Server.ListenAndServe], but uses an existing listener.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:      s,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(l)
	}()
	s.logger.Info("web service started",
		"addr", l.Addr().String(),
		"version", buildinfo.Version())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		return err
	}
	s.logger.Info("web service stopped")
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}

func (s *Server) requestLogger(r *http.Request) *slog.Logger {
	return s.logger.With("request_id", middleware.GetReqID(r.Context()))
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version(),
	})
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)
	err := s.parseForm(w, r)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	pdfData, pdfName, err := formFile(r, "pdf")
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	xmlData, _, err := formFile(r, "xml")
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}

	opt, err := s.embedOptions(r)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	opt.Logger = logger

	for i := 1; i <= s.cfg.MaxAttachments; i++ {
		key := "attachment" + strconv.Itoa(i)
		data, name, err := formFile(r, key)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		} else if err != nil {
			s.fail(w, r, http.StatusBadRequest, err)
			return
		}
		opt.Attachments = append(opt.Attachments, &attachment.File{
			Filename: name,
			Data:     data,
		})
	}

	out, res, err := facturx.EmbedBytes(pdfData, xmlData, opt)
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}

	for _, msg := range res.Warnings {
		w.Header().Add(WarningHeader, strconv.QuoteToASCII(msg))
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", disposition(outputName(pdfName)))
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(out)
	if err != nil {
		logger.Warn("cannot send response", "error", err)
		return
	}
	logger.Info("hybrid document returned", "profile", res.Profile, "size", len(out))
}

func (s *Server) extract(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)
	err := s.parseForm(w, r)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	pdfData, _, err := formFile(r, "pdf")
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	check, err := formBool(r, "check_xsd", s.cfg.CheckSchema)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}

	payload, err := facturx.ExtractBytes(pdfData, &facturx.ExtractOptions{
		CheckSchema: check,
		Logger:      logger,
	})
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	} else if payload == nil {
		s.fail(w, r, http.StatusNotFound, errors.New("no XML business document found"))
		return
	}

	w.Header().Set("Content-Type", "text/xml")
	w.Header().Set("Content-Disposition", disposition(payload.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(payload.Data)))
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(payload.Data)
	if err != nil {
		logger.Warn("cannot send response", "error", err)
	}
}

func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) error {
	limit := s.cfg.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	err := r.ParseMultipartForm(limit)
	if err != nil {
		return fmt.Errorf("invalid multipart form: %w", err)
	}
	return nil
}

func (s *Server) embedOptions(r *http.Request) (*facturx.Options, error) {
	opt := &facturx.Options{
		DefaultOutputIntent: s.cfg.DefaultOutputIntent,
		Lang:                r.FormValue("lang"),
	}

	var err error
	opt.Flavor, err = profile.ParseFlavor(r.FormValue("flavor"))
	if err != nil {
		return nil, err
	}
	opt.Level, err = profile.ParseLevel(r.FormValue("level"))
	if err != nil {
		return nil, err
	}
	opt.OrderType, err = profile.ParseOrderType(r.FormValue("order_type"))
	if err != nil {
		return nil, err
	}
	opt.Relationship, err = attachment.ParseRelationship(r.FormValue("afrelationship"))
	if err != nil {
		return nil, err
	}
	check, err := formBool(r, "check_xsd", s.cfg.CheckSchema)
	if err != nil {
		return nil, err
	}
	opt.SkipValidation = !check

	fields := &metadata.Fields{
		Author:   r.FormValue("meta_author"),
		Title:    r.FormValue("meta_title"),
		Subject:  r.FormValue("meta_subject"),
		Keywords: r.FormValue("meta_keywords"),
	}
	if *fields != (metadata.Fields{}) {
		opt.Metadata = fields
	}

	return opt, nil
}

// fail sends an error response.  Server errors are logged at ERROR,
// client errors at INFO.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	logger := s.requestLogger(r)
	if status >= 500 {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Info("request rejected", "status", status, "error", err)
	}

	body := map[string]string{"error": err.Error()}
	var stepErr *facturx.StepError
	if errors.As(err, &stepErr) {
		body["step"] = string(stepErr.Step)
	}
	writeJSON(w, status, body)
}

// statusFor maps library errors to HTTP status codes.  All inputs come
// from the client, so most failures are client errors.
func statusFor(err error) int {
	var stepErr *facturx.StepError
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.Is(err, facturx.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &stepErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func formFile(r *http.Request, key string) ([]byte, string, error) {
	f, header, err := r.FormFile(key)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", fmt.Errorf("missing file %q: %w", key, err)
	} else if err != nil {
		return nil, "", err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	return data, path.Base(strings.ReplaceAll(header.Filename, "\\", "/")), nil
}

func formBool(r *http.Request, key string, def bool) (bool, error) {
	val := r.FormValue(key)
	if val == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid value for %s: %q", key, val)
	}
	return b, nil
}

// outputName derives the name of the generated file from the name of the
// uploaded PDF file.
func outputName(name string) string {
	base := strings.TrimSuffix(name, path.Ext(name))
	if base == "" || base == "." || base == "/" {
		base = "document"
	}
	return base + "_facturx.pdf"
}

func disposition(filename string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
