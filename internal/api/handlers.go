package api

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"datahealth/domain/core"
	"datahealth/internal/errors"
	"datahealth/models"
)

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) handleSignup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput(err.Error()))
		return
	}

	session, err := s.accounts.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput(err.Error()))
		return
	}

	session, err := s.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) handleMe(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

func (s *Server) handleUpload(c *gin.Context) {
	user := currentUser(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload+(1<<20))

	header, err := c.FormFile("file")
	if err != nil {
		respondError(c, errors.InvalidInput("a file field is required"))
		return
	}
	if header.Size > s.maxUpload {
		respondError(c, errors.InvalidInput(fmt.Sprintf("file exceeds %d MB", s.maxUpload>>20)))
		return
	}

	f, err := header.Open()
	if err != nil {
		respondError(c, errors.Wrap(err, "failed to open upload"))
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		respondError(c, errors.Wrap(err, "failed to read upload"))
		return
	}

	ds, err := s.datasets.Upload(c.Request.Context(), user.ID, filepath.Base(header.Filename), content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "File uploaded successfully",
		"dataset": ds.Summary(),
	})
}

func (s *Server) handleListDatasets(c *gin.Context) {
	datasets, err := s.datasets.ListDatasets(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if datasets == nil {
		datasets = []*models.Dataset{}
	}
	c.JSON(http.StatusOK, datasets)
}

func (s *Server) handleAnalyze(c *gin.Context) {
	id, ok := pathID(c, "Dataset")
	if !ok {
		return
	}

	result, err := s.datasets.Analyze(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleDownloadReport(c *gin.Context) {
	id, ok := pathID(c, "Report")
	if !ok {
		return
	}

	doc, err := s.datasets.RenderReport(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}

func (s *Server) handleDeleteDataset(c *gin.Context) {
	id, ok := pathID(c, "Dataset")
	if !ok {
		return
	}

	if err := s.datasets.DeleteDataset(c.Request.Context(), currentUser(c).ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dataset deleted successfully"})
}

// pathID parses the :id parameter; a malformed id reads as not found
func pathID(c *gin.Context, resource string) (uuid.UUID, bool) {
	id, err := core.ParseID(c.Param("id"), resource)
	if err != nil {
		respondError(c, err)
		return uuid.Nil, false
	}
	return id, true
}
