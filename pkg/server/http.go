package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/bastiangx/rankjump/pkg/ranking"
	"github.com/charmbracelet/log"
	"github.com/julienschmidt/httprouter"
)

const httpTimeout = 30 * time.Second

// NewHTTPHandler routes the JSON API to handler.
func NewHTTPHandler(handler *Handler, version string) http.Handler {
	mux := httprouter.New()

	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, v any) {
		log.Errorf("Panic serving %s %s: %v", r.Method, r.URL.Path, v)
		writeJSON(w, http.StatusInternalServerError, Response{Status: StatusError, Error: "internal server error"})
	}

	mux.GET("/healthz", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(w, http.StatusOK, handler.Status())
	})

	mux.GET("/version", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("rankjump v" + version + "\n"))
	})

	mux.POST("/load", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		date := r.URL.Query().Get("date")
		if !ranking.ValidDate(date) {
			writeJSON(w, http.StatusBadRequest, Response{Status: StatusError, Date: date, Error: "date must be YYYY-MM-DD"})
			return
		}
		resp := handler.Load(r.Context(), date)
		writeJSON(w, loadStatus(resp), resp)
	})

	mux.GET("/snapshot", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(w, http.StatusOK, handler.Snapshot())
	})

	mux.GET("/suggest", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		resp := handler.Suggest(r.Context(), r.URL.Query().Get("q"))
		code := http.StatusOK
		if resp.Status == StatusError {
			code = http.StatusBadGateway
		}
		writeJSON(w, code, resp)
	})

	mux.POST("/select/:id", func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		resp := handler.Select(p.ByName("id"))
		code := http.StatusOK
		if resp.Status == StatusNotFound {
			code = http.StatusNotFound
		}
		writeJSON(w, code, resp)
	})

	return mux
}

func loadStatus(resp Response) int {
	switch resp.Status {
	case StatusOK:
		return http.StatusOK
	case StatusSuperseded:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

// ServeHTTP listens on addr until ctx is done, then shuts down gracefully.
func ServeHTTP(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       httpTimeout,
		ReadHeaderTimeout: httpTimeout,
		WriteTimeout:      httpTimeout,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Infof("Listening on http://%s/", ln.Addr())

	errs := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}
