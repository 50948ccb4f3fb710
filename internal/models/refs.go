package models

import (
	"encoding/json"
	"fmt"
)

// Ref is a reference to another entity as the upstream API serializes it.
// Depending on the endpoint the same field arrives as a bare id (3), as a
// nested object ({"id":3,"name":"Tigres"}), or as null. Ref normalizes all of
// them so the rest of the app works with one shape.
type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

func (r Ref) IsZero() bool {
	return r.ID == 0
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Ref{}
		return nil
	}

	var id int64
	if err := json.Unmarshal(data, &id); err == nil {
		*r = Ref{ID: id}
		return nil
	}

	var obj struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("reference must be an id or an object with an id: %w", err)
	}
	*r = Ref{ID: obj.ID, Name: obj.Name}
	return nil
}
