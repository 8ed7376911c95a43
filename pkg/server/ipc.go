package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles msgpack IPC on a reader/writer pair, normally stdin/stdout.
type Server struct {
	handler *Handler
	dec     *msgpack.Decoder
	enc     *msgpack.Encoder

	wmu      sync.Mutex
	inflight sync.WaitGroup
}

// NewServer creates an IPC server reading requests from r and writing
// responses to w.
func NewServer(handler *Handler, r io.Reader, w io.Writer) *Server {
	return &Server{
		handler: handler,
		dec:     msgpack.NewDecoder(r),
		enc:     msgpack.NewEncoder(w),
	}
}

// Start announces readiness, then serves until the input ends or ctx is done.
// A stream that fails to decode cannot be resynchronised, so it ends the loop.
func (s *Server) Start(ctx context.Context) error {
	log.Debug("Starting IPC server")
	defer s.inflight.Wait()

	s.send(Response{Status: StatusReady})

	for {
		if ctx.Err() != nil {
			return nil
		}

		var req Request
		if err := s.dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debug("IPC input closed")
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			s.send(Response{Status: StatusError, Error: "invalid msgpack request"})
			return err
		}

		// loads may take seconds; the rest is answered in order
		if req.Action == "load" {
			s.inflight.Add(1)
			go func(req Request) {
				defer s.inflight.Done()
				s.reply(req, s.handler.Load(ctx, req.Date))
			}(req)
			continue
		}
		s.reply(req, s.dispatch(ctx, req))
	}
}

func (s *Server) dispatch(ctx context.Context, req Request) Response {
	switch req.Action {
	case "suggest":
		return s.handler.Suggest(ctx, req.Query)
	case "select":
		if req.Entry == "" {
			return Response{Status: StatusError, Error: "missing 'entry' parameter"}
		}
		return s.handler.Select(req.Entry)
	case "snapshot":
		return s.handler.Snapshot()
	case "status":
		return s.handler.Status()
	default:
		return Response{Status: StatusError, Error: fmt.Sprintf("unknown action: %q", req.Action)}
	}
}

func (s *Server) reply(req Request, resp Response) {
	resp.ID = req.ID
	s.send(resp)
}

// send encodes one response; concurrent loads share the writer.
func (s *Server) send(resp Response) {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	if err := s.enc.Encode(&resp); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}
