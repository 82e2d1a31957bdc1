package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID accepts both JSON strings and numbers. The evaluation listing returns
// numeric control ids for some clouds and strings for others.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

type Control struct {
	ControlID       ID     `json:"controlId"`
	ControlName     string `json:"controlName"`
	FailedResources int    `json:"failedResources"`
	PassedResources int    `json:"passedResources,omitempty"`
	Criticality     string `json:"criticality,omitempty"`
}

type EvaluationPage struct {
	Content       []Control `json:"content"`
	Last          bool      `json:"last"`
	TotalPages    int       `json:"totalPages"`
	TotalElements int       `json:"totalElements,omitempty"`
	Number        int       `json:"number,omitempty"`
}

type Resource struct {
	ResourceID ID     `json:"resourceId"`
	Result     string `json:"result"`
	Region     string `json:"region,omitempty"`
}

type ResourcePage struct {
	Content    []Resource `json:"content"`
	Last       bool       `json:"last"`
	TotalPages int        `json:"totalPages"`
	Number     int        `json:"number,omitempty"`
}
