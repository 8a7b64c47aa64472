package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/Leopold1975/churnguard/internal/churnguard/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// (GET /).
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	if s.staticDir == "" {
		http.NotFound(w, r)

		return
	}

	http.ServeFile(w, r, filepath.Join(s.staticDir, "index.html"))
}

// Liveness probe
// (GET /test).
func (s *Server) Test(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Good")) //nolint:errcheck
}

// (POST /register).
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)

		return
	}

	if err := s.auth.Register(r.Context(), req.Username, req.Password); err != nil {
		handleError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, MessageResponse{Message: "User created successfully"})
}

// (POST /login).
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)

		return
	}

	if err := s.auth.Login(r.Context(), req.Username, req.Password); err != nil {
		handleError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Login successful"})
}

// Bulk import of an .xlsx workbook sent as multipart field "file"
// (POST /upload-all).
func (s *Server) UploadAll(w http.ResponseWriter, r *http.Request) {
	if s.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			handleError(w, fmt.Errorf("%w: no selected file", models.ErrValidation))

			return
		}

		handleError(w, fmt.Errorf("%w: read upload: %w", models.ErrValidation, err))

		return
	}
	defer file.Close()

	n, err := s.customers.Import(r.Context(), header.Filename, file)
	if err != nil {
		handleError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		Message:  "File successfully uploaded and data inserted",
		Inserted: n,
	})
}

// (GET /data).
func (s *Server) Data(w http.ResponseWriter, r *http.Request) {
	customers, err := s.customers.List(r.Context())
	if err != nil {
		handleError(w, err)

		return
	}

	if customers == nil {
		customers = []models.Customer{}
	}

	writeJSON(w, http.StatusOK, customers)
}

// Drops every customer collection and every user account
// (DELETE /delete-all).
func (s *Server) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := s.admin.DeleteAll(r.Context()); err != nil {
		handleError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "All data deleted successfully"})
}

// (DELETE /delete-client).
func (s *Server) DeleteClient(w http.ResponseWriter, r *http.Request) {
	var req DeleteClientRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)

		return
	}

	if req.ID == nil {
		handleError(w, fmt.Errorf("%w: missing id in request", models.ErrValidation))

		return
	}

	id, ok := req.ID.Int64()
	if !ok {
		handleError(w, fmt.Errorf("%w: invalid id format", models.ErrValidation))

		return
	}

	if err := s.customers.Delete(r.Context(), id); err != nil {
		handleError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Client deleted successfully"})
}

// (POST /create-client).
func (s *Server) CreateClient(w http.ResponseWriter, r *http.Request) {
	var f models.Fields
	if err := decode(r, &f); err != nil {
		handleError(w, err)

		return
	}

	id, err := s.customers.Create(r.Context(), f)
	if err != nil {
		handleError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, CreateClientResponse{Message: "Client added successfully", ID: id})
}

// Partial update by CustomerID
// (POST /update-client/{id}).
func (s *Server) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, err := customerID(r)
	if err != nil {
		handleError(w, err)

		return
	}

	var f models.Fields
	if err := decode(r, &f); err != nil {
		handleError(w, err)

		return
	}

	c, err := s.customers.Update(r.Context(), id, f)
	if err != nil {
		handleError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, UpdateClientResponse{
		Message: "Client updated successfully",
		ID:      c.ID,
		Client:  c,
	})
}

// (GET /read-client/{id}).
func (s *Server) ReadClient(w http.ResponseWriter, r *http.Request) {
	id, err := customerID(r)
	if err != nil {
		handleError(w, err)

		return
	}

	c, err := s.customers.Get(r.Context(), id)
	if err != nil {
		handleError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, c.Fields.Without(models.InternalIDField))
}

// Retention advice from the configured chat session
// (GET /suggest-client/{id}?source=gxs|playbook|recommendation).
func (s *Server) SuggestClient(w http.ResponseWriter, r *http.Request) {
	id, err := customerID(r)
	if err != nil {
		handleError(w, err)

		return
	}

	reply, err := s.suggest.Suggest(r.Context(), id, r.URL.Query().Get("source"))
	if err != nil {
		handleError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, SuggestResponse{Suggestion: reply})
}

// (POST /predict).
func (s *Server) Predict(w http.ResponseWriter, r *http.Request) {
	var f models.Fields
	if err := decode(r, &f); err != nil {
		handleError(w, err)

		return
	}

	label, err := s.churn.Predict(f)
	if err != nil {
		handleError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, PredictResponse{Prediction: label})
}

// (GET /batch-predict-update).
func (s *Server) BatchPredictUpdate(w http.ResponseWriter, r *http.Request) {
	n, err := s.churn.BatchPredictAndUpdate(r.Context())
	if err != nil {
		handleError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, BatchResponse{
		Message: "Batch prediction and update successful",
		Updated: n,
	})
}

func customerID(r *http.Request) (int64, error) {
	var id int64

	err := runtime.BindStyledParameterWithLocation("simple", false, "id",
		runtime.ParamLocationPath, chi.URLParam(r, "id"), &id)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", models.ErrValidation, err)
	}

	return id, nil
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, models.ErrValidation) {
			return err
		}

		return fmt.Errorf("%w: decode error: %w", models.ErrValidation, err)
	}

	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err))

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(b) //nolint:errcheck
}
