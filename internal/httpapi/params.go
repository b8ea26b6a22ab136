package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tinoosan/hacc/internal/dates"
	"github.com/tinoosan/hacc/internal/errs"
)

func badParam(name, v string) error {
	return errs.Invalid(errs.CodeInvalidParam, "invalid "+name+": "+v)
}

// pathID reads the {id} URL parameter.
func pathID(r *http.Request) (uuid.UUID, error) {
	v := chi.URLParam(r, "id")
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, badParam("id", v)
	}
	return id, nil
}

// queryDate reads an optional YYYY-MM-DD parameter; nil when absent.
func queryDate(r *http.Request, name string) (*time.Time, error) {
	v := r.URL.Query().Get(name)
	d, ok, err := dates.Parse(v)
	if err != nil {
		return nil, badParam(name, v)
	}
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func queryInt(r *http.Request, name string) (*int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, badParam(name, v)
	}
	return &n, nil
}

func queryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, badParam(name, v)
	}
	return &id, nil
}

// paramReader collects the first parse error so handlers can read several
// parameters before checking.
type paramReader struct {
	r   *http.Request
	err error
}

func (p *paramReader) dateParam(name string) *time.Time {
	d, err := queryDate(p.r, name)
	p.keep(err)
	return d
}

func (p *paramReader) intParam(name string) *int {
	n, err := queryInt(p.r, name)
	p.keep(err)
	return n
}

func (p *paramReader) uuidParam(name string) *uuid.UUID {
	id, err := queryUUID(p.r, name)
	p.keep(err)
	return id
}

func (p *paramReader) keep(err error) {
	if p.err == nil {
		p.err = err
	}
}
