// Package envelope holds the response shapes every endpoint writes.
package envelope

import "github.com/ReawEiEi/hotel-booking-server/pkg/model"

type SuccessBody struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type ListBody struct {
	Success    bool              `json:"success"`
	Count      int               `json:"count"`
	Pagination *model.Pagination `json:"pagination,omitempty"`
	Data       any               `json:"data"`
}

type FailureBody struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func Success(data any) SuccessBody {
	if data == nil {
		data = struct{}{}
	}
	return SuccessBody{Success: true, Data: data}
}

// List wraps a collection. count is the number of items in data, not the total in the store.
func List[T any](data []T, pagination *model.Pagination) ListBody {
	if data == nil {
		data = []T{}
	}
	return ListBody{
		Success:    true,
		Count:      len(data),
		Pagination: pagination,
		Data:       data,
	}
}

func Failure(message string) FailureBody {
	return FailureBody{Success: false, Message: message}
}

func FailureWithDetails(message string, details map[string]any) FailureBody {
	return FailureBody{Success: false, Message: message, Details: details}
}
