// Package server exposes height map generation over HTTP and websockets.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"the.quetzal.community/heightfield/heightfield"
	"the.quetzal.community/heightfield/internal/config"
	"the.quetzal.community/heightfield/internal/mapgen"
	"the.quetzal.community/heightfield/internal/sink"
)

// GenerationHeader carries the ID assigned to every generated map.
const GenerationHeader = "X-Generation-Id"

type Server struct {
	config    config.Config
	generator mapgen.Generator

	Print func(string, ...any)
}

// New prepares a server from c.
func New(c config.Config) (*Server, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	src, err := c.Source()
	if err != nil {
		return nil, err
	}
	s := &Server{config: c}
	s.generator = mapgen.Generator{
		Noise:    src,
		Gradient: c.ColorGradient(),
		Print:    s.print,
	}
	return s, nil
}

// Handler routes the server's endpoints.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/heightmap.png", s.pngHandler).Methods(http.MethodGet)
	router.HandleFunc("/heightmap.json", s.jsonHandler).Methods(http.MethodGet)
	router.HandleFunc("/heightmap/ws", s.wsHandler)
	return router
}

func (s *Server) print(format string, args ...any) {
	if s.Print != nil {
		s.Print(format, args...)
	}
}

func (s *Server) pngHandler(w http.ResponseWriter, req *http.Request) {
	params, err := s.parameters(req.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if params.Width == 0 || params.Height == 0 {
		http.Error(w, "cannot encode an empty map as PNG", http.StatusBadRequest)
		return
	}
	buffer := new(bytes.Buffer)
	generator := s.generator
	generator.Sink = sink.PNG{Writer: buffer}
	if err := generator.Generate(req.Context(), params); err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set(GenerationHeader, uuid.NewString())
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buffer.Len()))
	if _, err := w.Write(buffer.Bytes()); err != nil {
		s.print("unable to write image: %v\n", err)
	}
}

// MapResponse is the body of /heightmap.json.
type MapResponse struct {
	ID         string                 `json:"id"`
	Parameters heightfield.Parameters `json:"parameters"`
	heightfield.Result
}

func (s *Server) jsonHandler(w http.ResponseWriter, req *http.Request) {
	params, err := s.parameters(req.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	result, err := heightfield.Generate(req.Context(), params, s.generator.Noise)
	if err != nil {
		s.fail(w, err)
		return
	}
	id := uuid.NewString()
	data, err := json.Marshal(MapResponse{ID: id, Parameters: params, Result: result})
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set(GenerationHeader, id)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		s.print("unable to write map: %v\n", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, heightfield.ErrInvalidParameter) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.print("generation failed: %v\n", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// parameters overlays query values onto the configured defaults and
// enforces the server's size limits.
func (s *Server) parameters(query url.Values) (heightfield.Parameters, error) {
	params := s.config.Map
	var errs []error
	integer := func(key string, dst *int) {
		if v := query.Get(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	float := func(key string, dst *float64) {
		if v := query.Get(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = f
		}
	}
	integer("width", &params.Width)
	integer("height", &params.Height)
	integer("octaves", &params.Octaves)
	float("scale", &params.Scale)
	float("persistence", &params.Persistence)
	float("lacunarity", &params.Lacunarity)
	float("offset_x", &params.Offset.X)
	float("offset_y", &params.Offset.Y)
	if v := query.Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("seed: %w", err))
		} else {
			params.Seed = seed
		}
	}
	if err := errors.Join(errs...); err != nil {
		return params, err
	}
	return params, s.limit(params)
}

func (s *Server) limit(params heightfield.Parameters) error {
	limits := s.config.Server
	if params.Width > limits.MaxDimension || params.Height > limits.MaxDimension {
		return fmt.Errorf("map size %dx%d exceeds the limit of %d", params.Width, params.Height, limits.MaxDimension)
	}
	if params.Octaves > limits.MaxOctaves {
		return fmt.Errorf("%d octaves exceeds the limit of %d", params.Octaves, limits.MaxOctaves)
	}
	return params.Validate()
}
