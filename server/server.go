package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"reflect"
	"strings"
	"syscall"
	"time"

	"github.com/barefootnomad/api/config"
	"github.com/barefootnomad/api/db"
	errs "github.com/barefootnomad/api/errors"
	"github.com/barefootnomad/api/models"
	"github.com/barefootnomad/api/services"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const shutdownTimeout = 10 * time.Second

// Server holds the dependencies the handlers need.
type Server struct {
	Config               *config.Config
	AuthRepository       db.AuthRepository
	AuthService          services.AuthService
	CommentService       services.CommentService
	RequestService       services.RequestService
	AccommodationService services.AccommodationService
	NotificationService  services.NotificationService
	Hub                  *services.Hub
	// OnShutdown runs after the HTTP server stopped accepting requests.
	OnShutdown []func()
}

// Start serves until SIGINT or SIGTERM, then drains in-flight requests.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.Config.Port),
		Handler:           s.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Server started on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Println("shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	for _, fn := range s.OnShutdown {
		fn()
	}
	if err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Println("server exiting")
	return nil
}

var trans ut.Translator

func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	english := en.New()
	uni := ut.New(english, english)
	trans, _ = uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(v, trans); err != nil {
		log.Printf("register validator translations: %v", err)
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// decode binds the JSON body into v, applies the conform tags and only then
// runs the binding validation, so padded input is judged after trimming.
func decode(c *gin.Context, v interface{}) *errs.Error {
	err := c.ShouldBindBodyWith(v, binding.JSON)
	var verrs validator.ValidationErrors
	if err != nil && !errors.As(err, &verrs) {
		return errs.Wrap(err, "invalid request body", http.StatusBadRequest)
	}
	if err := models.Sanitize(v); err != nil {
		return errs.ValidationError(err.Error())
	}
	if err := binding.Validator.ValidateStruct(v); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) *errs.Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errs.Wrap(err, "invalid request body", http.StatusBadRequest)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		if trans != nil {
			msgs = append(msgs, e.Translate(trans))
		} else {
			msgs = append(msgs, e.Error())
		}
	}
	return errs.ValidationError(strings.Join(msgs, ", "))
}
