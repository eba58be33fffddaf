// Package server exposes the repository layer to the presentation
// layer over HTTP. Handlers only translate JSON payloads into
// repository calls and results back into JSON; no domain rule lives
// here.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lumenlabs/lumen/backend/internal/assistant"
	"github.com/lumenlabs/lumen/backend/internal/canvases"
	"github.com/lumenlabs/lumen/backend/internal/courses"
	"github.com/lumenlabs/lumen/backend/internal/identity"
	"github.com/lumenlabs/lumen/backend/internal/journals"
	"github.com/lumenlabs/lumen/backend/internal/profile"
	"github.com/lumenlabs/lumen/backend/internal/spaces"
	"github.com/lumenlabs/lumen/backend/internal/tasks"
)

const requestIDHeader = "X-Request-ID"

var (
	errMissingSpacesService      = errors.New("spaces service dependency required")
	errMissingCanvasService      = errors.New("canvas service dependency required")
	errMissingJournalService     = errors.New("journal service dependency required")
	errMissingTaskService        = errors.New("task service dependency required")
	errMissingProfileService     = errors.New("profile service dependency required")
	errMissingCourseCatalog      = errors.New("course catalog dependency required")
	errMissingEnrollmentsService = errors.New("enrollments service dependency required")
	errMissingReplyGenerator     = errors.New("reply generator dependency required")
)

// Dependencies carries everything the HTTP facade needs.
type Dependencies struct {
	Spaces      *spaces.Service
	Canvases    *canvases.Service
	Journals    *journals.Service
	Tasks       *tasks.Service
	Profile     *profile.Service
	Catalog     *courses.Catalog
	Enrollments *courses.Enrollments
	Replies     assistant.ReplyGenerator
	Logger      *zap.Logger
}

// NewHTTPHandler builds the gin router serving the workspace API.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Spaces == nil {
		return nil, errMissingSpacesService
	}
	if deps.Canvases == nil {
		return nil, errMissingCanvasService
	}
	if deps.Journals == nil {
		return nil, errMissingJournalService
	}
	if deps.Tasks == nil {
		return nil, errMissingTaskService
	}
	if deps.Profile == nil {
		return nil, errMissingProfileService
	}
	if deps.Catalog == nil {
		return nil, errMissingCourseCatalog
	}
	if deps.Enrollments == nil {
		return nil, errMissingEnrollmentsService
	}
	if deps.Replies == nil {
		return nil, errMissingReplyGenerator
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware(identity.NewUUIDProvider()))
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{"Authorization", "Content-Type", requestIDHeader},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		spaces:      deps.Spaces,
		canvases:    deps.Canvases,
		journals:    deps.Journals,
		tasks:       deps.Tasks,
		profile:     deps.Profile,
		catalog:     deps.Catalog,
		enrollments: deps.Enrollments,
		replies:     deps.Replies,
		logger:      logger,
	}

	router.POST("/spaces", handler.handleCreateSpace)
	router.GET("/spaces", handler.handleListSpaces)
	router.GET("/spaces/:id", handler.handleGetSpace)
	router.PATCH("/spaces/:id", handler.handleRenameSpace)
	router.DELETE("/spaces/:id", handler.handleDeleteSpace)
	router.POST("/spaces/:id/messages", handler.handleAddMessage)
	router.POST("/spaces/:id/reply", handler.handleReply)

	router.GET("/canvases", handler.handleListCanvases)
	router.POST("/canvases", handler.handleSaveCanvas)
	router.DELETE("/canvases/:id", handler.handleDeleteCanvas)

	router.GET("/journals", handler.handleListJournals)
	router.GET("/journals/:id", handler.handleGetJournal)
	router.PUT("/journals", handler.handleSaveJournal)
	router.DELETE("/journals/:id", handler.handleDeleteJournal)

	router.GET("/tasks", handler.handleListTasks)
	router.POST("/tasks", handler.handleCreateTask)
	router.PATCH("/tasks/:id", handler.handleUpdateTask)
	router.DELETE("/tasks/:id", handler.handleDeleteTask)

	router.GET("/profile", handler.handleGetProfile)
	router.PUT("/profile", handler.handleSaveProfile)

	router.GET("/courses", handler.handleListCourses)
	router.GET("/courses/:id", handler.handleGetCourse)
	router.POST("/courses/:id/enroll", handler.handleEnroll)
	router.PUT("/courses/:id/progress", handler.handleUpdateProgress)
	router.GET("/enrollments", handler.handleListEnrollments)

	return router, nil
}

// requestIDMiddleware assigns each request a correlation id, echoed in
// the response header. Client-supplied ids are kept.
func requestIDMiddleware(ids identity.IDProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			if generated, err := ids.NewID(); err == nil {
				requestID = generated
			}
		}
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}
