package handler

import (
	"github.com/99minutos/client-registry/internal/core/domain"
	"github.com/99minutos/client-registry/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createClientRequest) ports.CreateClientInput {
	return ports.CreateClientInput{
		Name:      req.Name,
		LastName:  req.LastName,
		BirthDate: req.BirthDate,
		Direction: req.Direction,
		Mail:      req.Mail,
		Phone:     req.Phone,
	}
}

func toUpdateInput(req updateClientRequest) ports.UpdateClientInput {
	return ports.UpdateClientInput{
		Name:      req.Name,
		LastName:  req.LastName,
		BirthDate: req.BirthDate,
		Direction: req.Direction,
		Mail:      req.Mail,
		Phone:     req.Phone,
	}
}

// --- Service result → HTTP response ---

func toClientResponse(c *domain.Client) clientResponse {
	return clientResponse{
		ID:           c.ID,
		Name:         c.Name,
		LastName:     c.LastName,
		BirthDate:    c.BirthDate,
		Direction:    c.Direction,
		Mail:         c.Mail,
		Phone:        c.Phone,
		Status:       c.Status,
		CreationDate: c.CreationDate.UTC(),
	}
}

func toClientListResponse(clients []*domain.Client) []clientResponse {
	out := make([]clientResponse, len(clients))
	for i, c := range clients {
		out[i] = toClientResponse(c)
	}
	return out
}

func toCreateResponse(r *ports.RegistrationResult) createClientResponse {
	warnings := make([]warningResponse, len(r.Warnings))
	for i, w := range r.Warnings {
		warnings[i] = warningResponse{Code: w.Code, Message: w.Message}
	}
	return createClientResponse{
		Message:         "client created",
		Data:            toClientResponse(r.Client),
		UserProvisioned: r.Provision == ports.ProvisionCreated,
		Warnings:        warnings,
	}
}
