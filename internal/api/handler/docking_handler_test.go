package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moldock/docking-be/internal/api/dto"
	"github.com/moldock/docking-be/internal/config"
	"github.com/moldock/docking-be/internal/docking/domain"
	"github.com/moldock/docking-be/internal/docking/engine"
	"github.com/moldock/docking-be/internal/docking/registry"
)

// stubRunner fakes the AutoDock toolchain for handler tests. It writes every
// requested output file and returns a canned vina score.
type stubRunner struct{}

func (stubRunner) Run(_ context.Context, name string, args ...string) (*engine.ToolOutput, error) {
	out := &engine.ToolOutput{}

	for i, arg := range args {
		if (arg == "-o" || arg == "--out") && i+1 < len(args) {
			if err := os.WriteFile(args[i+1], []byte("REMARK output"), 0o644); err != nil {
				return nil, err
			}
		}
	}

	if name == "vina" {
		out.Stdout = "REMARK VINA RESULT:      -8.5      0.000      2.100\n"
	}

	return out, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *registry.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	root := t.TempDir()
	dockingCfg := &config.DockingConfig{
		VinaExecutable:        "vina",
		PrepareReceptorScript: "prepare_receptor4.py",
		PrepareLigandScript:   "prepare_ligand4.py",
		UploadDir:             filepath.Join(root, "uploads"),
		ResultsDir:            filepath.Join(root, "results"),
		TempDir:               filepath.Join(root, "temp"),
		MaxFileSize:           1024 * 1024,
		AllowedExtensions:     []string{"pdb", "pdbqt", "sdf", "mol2"},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := registry.New()

	eng := engine.New(engine.Config{
		VinaExecutable:        dockingCfg.VinaExecutable,
		PrepareReceptorScript: dockingCfg.PrepareReceptorScript,
		PrepareLigandScript:   dockingCfg.PrepareLigandScript,
		TempDir:               dockingCfg.TempDir,
		ResultsDir:            dockingCfg.ResultsDir,
	}, reg, stubRunner{}, logger)

	r := gin.New()
	h := NewDockingHandler(&Dependencies{
		Logger:   logger,
		Registry: reg,
		Engine:   eng,
		Docking:  dockingCfg,
	})

	v1 := r.Group("/api/v1/docking")
	v1.POST("/submit", h.SubmitDocking)
	v1.GET("/status/:job_id", h.GetDockingStatus)
	v1.GET("/results/:job_id", h.DownloadResults)
	v1.DELETE("/job/:job_id", h.DeleteJob)

	return r, reg
}

// submitRequest builds a multipart submission with a receptor, the given
// ligand filenames and optional extra form fields.
func submitRequest(t *testing.T, ligandNames []string, fields map[string]string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	receptor, err := writer.CreateFormFile("receptor", "protein.pdb")
	require.NoError(t, err)
	_, err = receptor.Write([]byte("ATOM      1  N   MET A   1"))
	require.NoError(t, err)

	for _, name := range ligandNames {
		ligand, err := writer.CreateFormFile("ligands", name)
		require.NoError(t, err)
		_, err = ligand.Write([]byte("HETATM"))
		require.NoError(t, err)
	}

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/docking/submit", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func getJob(t *testing.T, r *gin.Engine, jobID string) (*domain.Job, int) {
	t.Helper()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/docking/status/"+jobID, nil))

	if w.Code != http.StatusOK {
		return nil, w.Code
	}

	var job domain.Job
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	return &job, w.Code
}

func TestSubmitDocking_EndToEnd(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, submitRequest(t, []string{"aspirin.mol2", "caffeine.sdf"}, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.SubmitJobResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.JobID)
	assert.Equal(t, domain.JobStatusPending, resp.Status)

	// The pipeline runs in the background; poll until it finishes
	require.Eventually(t, func() bool {
		job, code := getJob(t, r, resp.JobID)
		return code == http.StatusOK && job.Status == domain.JobStatusCompleted
	}, 5*time.Second, 10*time.Millisecond)

	job, code := getJob(t, r, resp.JobID)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "protein", job.ReceptorName)
	assert.Equal(t, 2, job.TotalLigands)
	assert.Equal(t, 2, job.SuccessfulDocks)
	assert.Equal(t, 0, job.FailedDocks)
	require.Len(t, job.LigandResults, 2)
	assert.Equal(t, "aspirin", job.LigandResults[0].LigandName)
	assert.Equal(t, "caffeine", job.LigandResults[1].LigandName)
	assert.Equal(t, -8.5, job.LigandResults[0].BindingAffinity)

	// Pose artifacts are downloadable once completed
	dw := httptest.NewRecorder()
	r.ServeHTTP(dw, httptest.NewRequest(http.MethodGet, "/api/v1/docking/results/"+resp.JobID, nil))
	assert.Equal(t, http.StatusOK, dw.Code)
	assert.Contains(t, dw.Header().Get("Content-Disposition"), resp.JobID)
}

func TestSubmitDocking_InvalidExtension(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, submitRequest(t, []string{"notes.txt"}, nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid file format")
}

func TestSubmitDocking_MissingReceptor(t *testing.T) {
	r, _ := newTestRouter(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	ligand, err := writer.CreateFormFile("ligands", "lig.mol2")
	require.NoError(t, err)
	_, err = ligand.Write([]byte("HETATM"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/docking/submit", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "receptor file is required")
}

func TestSubmitDocking_NoLigands(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, submitRequest(t, nil, nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "at least one ligand file is required")
}

func TestSubmitDocking_ExhaustivenessOutOfBounds(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, submitRequest(t, []string{"lig.mol2"}, map[string]string{
		"exhaustiveness": "99",
	}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid docking parameters")
}

func TestGetDockingStatus_UnknownJob(t *testing.T) {
	r, _ := newTestRouter(t)

	_, code := getJob(t, r, "no-such-job")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDeleteJob(t *testing.T) {
	r, reg := newTestRouter(t)

	reg.Put(&domain.Job{
		JobID:     "job-del",
		Status:    domain.JobStatusCompleted,
		CreatedAt: time.Now(),
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/docking/job/job-del", nil))
	require.Equal(t, http.StatusOK, w.Code)

	_, code := getJob(t, r, "job-del")
	assert.Equal(t, http.StatusNotFound, code)

	// Deleting again finds nothing and changes nothing
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/docking/job/job-del", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
