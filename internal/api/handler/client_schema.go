package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createClientRequest struct {
	Name      string `json:"name"`
	LastName  string `json:"lastName"`
	BirthDate string `json:"birthDate"`
	Direction string `json:"direction"`
	Mail      string `json:"mail"`
	Phone     string `json:"phone"`
}

// updateClientRequest uses pointers so an omitted field can be told apart
// from one sent as "".
type updateClientRequest struct {
	Name      *string `json:"name"`
	LastName  *string `json:"lastName"`
	BirthDate *string `json:"birthDate"`
	Direction *string `json:"direction"`
	Mail      *string `json:"mail"`
	Phone     *string `json:"phone"`
}

// --- Response types ---

type clientResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	LastName     string    `json:"lastName"`
	BirthDate    string    `json:"birthDate"`
	Direction    string    `json:"direction"`
	Mail         string    `json:"mail"`
	Phone        string    `json:"phone"`
	Status       bool      `json:"status"`
	CreationDate time.Time `json:"creationDate"`
}

type warningResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type createClientResponse struct {
	Message         string            `json:"message"`
	Data            clientResponse    `json:"data"`
	UserProvisioned bool              `json:"user_provisioned"`
	Warnings        []warningResponse `json:"warnings"`
}

type clientMessageResponse struct {
	Message string         `json:"message"`
	Data    clientResponse `json:"data"`
}

// partialSuccessResponse is returned when the client row was committed but a
// later registration stage failed.
type partialSuccessResponse struct {
	Error   string         `json:"error"`
	Partial bool           `json:"partial"`
	Data    clientResponse `json:"data"`
}
