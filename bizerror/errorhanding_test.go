package bizerror_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"shopwork/bizerror"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("ErrorHandling", func() {
	var router *gin.Engine
	var raised error

	BeforeEach(func() {
		gin.SetMode(gin.ReleaseMode)
		router = gin.New()
		router.Use(bizerror.ErrorHandling())
		router.GET("/panic", func(c *gin.Context) {
			panic(raised)
		})
		router.GET("/error", func(c *gin.Context) {
			_ = c.Error(raised)
		})
	})

	drive := func(path string) (int, string) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code, w.Body.String()
	}

	It("should translate status errors raised by panic", func() {
		raised = bizerror.ErrUnknownStatus
		status, body := drive("/panic")
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"workorder.unknown_status","message":"unknown status","data":null}`))

		raised = bizerror.ErrStatusTransitionInvalid
		status, body = drive("/panic")
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"workorder.invalid_status_transition",
			"message":"status transition is not allowed","data":null}`))

		raised = bizerror.ErrStatusUpdateConflict
		status, body = drive("/panic")
		Expect(status).To(Equal(http.StatusConflict))
		Expect(body).To(MatchJSON(`{"code":"workorder.status_update_conflict",
			"message":"work order was changed by another update","data":null}`))
	})

	It("should translate security errors", func() {
		raised = bizerror.ErrUnauthenticated
		status, body := drive("/panic")
		Expect(status).To(Equal(http.StatusUnauthorized))
		Expect(body).To(MatchJSON(`{"code":"common.unauthenticated","message":"unauthenticated","data":null}`))

		raised = bizerror.ErrForbidden
		status, body = drive("/panic")
		Expect(status).To(Equal(http.StatusForbidden))
		Expect(body).To(MatchJSON(`{"code":"security.forbidden","message":"access forbidden","data":null}`))

		raised = bizerror.ErrInvalidPassword
		status, _ = drive("/panic")
		Expect(status).To(Equal(http.StatusUnauthorized))

		raised = bizerror.ErrOwnerExisted
		status, _ = drive("/panic")
		Expect(status).To(Equal(http.StatusConflict))
	})

	It("should respond with the detail of business errors", func() {
		raised = &bizerror.ErrBadParam{Cause: errors.New("invalid id 'abc'")}
		status, body := drive("/panic")
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":"invalid id 'abc'","data":null}`))

		raised = &bizerror.ErrBadParam{}
		status, body = drive("/panic")
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":"common.bad_param","data":null}`))
	})

	It("should translate errors attached to the gin context", func() {
		raised = gorm.ErrRecordNotFound
		status, body := drive("/error")
		Expect(status).To(Equal(http.StatusNotFound))
		Expect(body).To(MatchJSON(`{"code":"common.record_not_found","message":"record not found","data":null}`))

		raised = bizerror.ErrNotFound
		status, _ = drive("/error")
		Expect(status).To(Equal(http.StatusNotFound))
	})

	It("should respond internal server error for unexpected errors", func() {
		raised = errors.New("some error")
		status, body := drive("/panic")
		Expect(status).To(Equal(http.StatusInternalServerError))
		Expect(body).To(MatchJSON(`{"code":"common.internal_server_error","message":"some error","data":null}`))
	})
})
