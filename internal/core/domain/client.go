package domain

import "time"

// Client is a registered customer. Mail is unique across every client,
// active or not.
type Client struct {
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

// ClientPatch carries a partial update. A nil field was absent from the
// request and keeps its stored value; a non-nil field is applied as given,
// including the empty string.
type ClientPatch struct {
	Name      *string
	LastName  *string
	BirthDate *string
	Direction *string
	Mail      *string
	Phone     *string
}

// IsEmpty reports whether the patch carries no fields at all.
func (p ClientPatch) IsEmpty() bool {
	return p.Name == nil && p.LastName == nil && p.BirthDate == nil &&
		p.Direction == nil && p.Mail == nil && p.Phone == nil
}

// ApplyTo returns a copy of c with every present field of the patch applied.
func (p ClientPatch) ApplyTo(c Client) Client {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.LastName != nil {
		c.LastName = *p.LastName
	}
	if p.BirthDate != nil {
		c.BirthDate = *p.BirthDate
	}
	if p.Direction != nil {
		c.Direction = *p.Direction
	}
	if p.Mail != nil {
		c.Mail = *p.Mail
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	return c
}
