// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes without behavior.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Company is the parent scope every employee belongs to.
type Company struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Address   string    `json:"address" db:"address"`
	Country   string    `json:"country" db:"country"`
	CreatedAt time.Time `json:"-" db:"created_at"`
	UpdatedAt time.Time `json:"-" db:"updated_at"`
}

// Employee is the record exposed through the list pipeline.
// The json tag is the public property name; db names the backing column.
// Fields tagged json:"-" are never sortable or shapeable.
type Employee struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Age       uint      `json:"age" db:"age"`
	Position  string    `json:"position" db:"position"`
	CompanyID uuid.UUID `json:"-" db:"company_id"`
	CreatedAt time.Time `json:"-" db:"created_at"`
	UpdatedAt time.Time `json:"-" db:"updated_at"`
}

// CompanyDto is the read shape of a company. FullAddress folds address and country.
type CompanyDto struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	FullAddress string    `json:"fullAddress"`
}

// EmployeeDto is the read shape of an employee and the type the field shaper walks.
type EmployeeDto struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Age      uint      `json:"age"`
	Position string    `json:"position"`
}

// CompanyForManipulation carries create/update payloads for companies.
type CompanyForManipulation struct {
	Name      string                    `json:"name" validate:"required,max=60"`
	Address   string                    `json:"address" validate:"required,max=60"`
	Country   string                    `json:"country" validate:"max=60"`
	Employees []EmployeeForManipulation `json:"employees,omitempty" validate:"dive"`
}

// EmployeeForManipulation carries create/update payloads for employees.
type EmployeeForManipulation struct {
	Name     string `json:"name" validate:"required,max=30"`
	Age      uint   `json:"age" validate:"required,min=18"`
	Position string `json:"position" validate:"required,max=20"`
}

// EmployeePatch is a partial update; nil fields keep their current value.
type EmployeePatch struct {
	Name     *string `json:"name"`
	Age      *uint   `json:"age"`
	Position *string `json:"position"`
}

// ToCompanyDto maps an entity to its read shape.
func ToCompanyDto(c Company) CompanyDto {
	full := c.Address
	if c.Country != "" {
		full = c.Address + " " + c.Country
	}
	return CompanyDto{ID: c.ID, Name: c.Name, FullAddress: full}
}

// ToEmployeeDto maps an entity to its read shape.
func ToEmployeeDto(e Employee) EmployeeDto {
	return EmployeeDto{ID: e.ID, Name: e.Name, Age: e.Age, Position: e.Position}
}

// ToEmployeeDtos maps a page of entities, preserving order.
func ToEmployeeDtos(in []Employee) []EmployeeDto {
	out := make([]EmployeeDto, 0, len(in))
	for _, e := range in {
		out = append(out, ToEmployeeDto(e))
	}
	return out
}

// ApplyTo merges the patch onto a manipulation payload.
func (p EmployeePatch) ApplyTo(dst *EmployeeForManipulation) {
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Age != nil {
		dst.Age = *p.Age
	}
	if p.Position != nil {
		dst.Position = *p.Position
	}
}
