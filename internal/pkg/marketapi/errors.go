package marketapi

import (
	"encoding/json"
	"fmt"
)

// APIError is a non-2xx answer from the marketplace API. Message keeps
// the collaborator's own text so callers can surface it verbatim.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("marketplace api error: status=%d message=%s", e.Status, e.Message)
	}
	return fmt.Sprintf("marketplace api error: status=%d", e.Status)
}

// The API is not consistent about its error envelope: login failures
// use {"error": ...}, bookings use {"message": ...} and sign-up
// validation uses {"errors": {field: [...]}}.
type errorEnvelope struct {
	Message string                  `json:"message"`
	Err     string                  `json:"error"`
	Errors  map[string]fieldErrors `json:"errors"`
}

// fieldErrors accepts both a bare string and the usual array of
// messages per field.
type fieldErrors []string

func (f *fieldErrors) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*f = many
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*f = []string{one}
	return nil
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		apiErr.Message = string(body)
		return apiErr
	}

	switch {
	case envelope.Message != "":
		apiErr.Message = envelope.Message
	case envelope.Err != "":
		apiErr.Message = envelope.Err
	case len(envelope.Errors) > 0:
		apiErr.Fields = make(map[string]string, len(envelope.Errors))
		for field, msgs := range envelope.Errors {
			if len(msgs) == 0 {
				continue
			}
			apiErr.Fields[field] = msgs[0]
			if apiErr.Message == "" {
				apiErr.Message = msgs[0]
			}
		}
	}

	return apiErr
}
