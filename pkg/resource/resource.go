// Package resource provides API resource transformers: each Resource
// controls exactly what JSON shape the API returns for a model.
//
//	type ProductResource struct{ resource.Base }
//	func (r *ProductResource) ToArray(v interface{}) resource.Map {
//	    p := v.(models.Product)
//	    return resource.Map{"id": p.ID, "nombre": p.Name}
//	}
//
//	resource.New(&ProductResource{}, product).Respond(w)
//	resource.Collection(&ProductResource{}, products).Respond(w)
package resource

import (
	"encoding/json"
	"net/http"
	"reflect"
)

// Map is a convenient alias for the output of ToArray.
type Map = map[string]interface{}

// Transformer defines the single method a Resource must implement.
type Transformer interface {
	// ToArray converts one model instance into a Map.
	ToArray(v interface{}) Map
}

// Base can be embedded in any Resource to satisfy future extension points.
type Base struct{}

// Resource wraps a single model or a slice with its transformer.
type Resource struct {
	transformer Transformer
	data        interface{}
	many        bool
	meta        Map
}

// New creates a Resource for a single model instance.
func New(t Transformer, data interface{}) *Resource {
	return &Resource{transformer: t, data: data}
}

// Collection creates a Resource for a slice of models.
func Collection(t Transformer, data interface{}) *Resource {
	return &Resource{transformer: t, data: data, many: true}
}

// WithMeta attaches additional metadata to the response envelope.
func (r *Resource) WithMeta(meta Map) *Resource {
	r.meta = meta
	return r
}

// Respond writes the transformed payload as a 200 JSON response.
func (r *Resource) Respond(w http.ResponseWriter) {
	r.RespondWithStatus(w, http.StatusOK)
}

// RespondWithStatus writes the transformed payload with an explicit status.
func (r *Resource) RespondWithStatus(w http.ResponseWriter, status int) {
	body := Map{"data": r.transform()}
	if r.meta != nil {
		body["meta"] = r.meta
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

func (r *Resource) transform() interface{} {
	if !r.many {
		return r.transformer.ToArray(r.data)
	}

	rv := reflect.ValueOf(r.data)
	if rv.Kind() != reflect.Slice {
		return []Map{}
	}

	out := make([]Map, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out = append(out, r.transformer.ToArray(rv.Index(i).Interface()))
	}
	return out
}
