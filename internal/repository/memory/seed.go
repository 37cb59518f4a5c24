package memory

import (
	"github.com/google/uuid"

	"github.com/maxviazov/company-employees-service/internal/model"
)

// Seed loads the same demo rows the Postgres seed migration inserts.
func (s *Store) Seed() {
	it := uuid.MustParse("c9d4c053-49b6-410c-bc78-2d54a9991870")
	admin := uuid.MustParse("3d490a70-94ce-4d15-9494-5248280c2ce3")

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for _, c := range []model.Company{
		{ID: it, Name: "IT_Solutions Ltd", Address: "583 Wall Dr. Gwynn Oak, MD 21207", Country: "USA"},
		{ID: admin, Name: "Admin_Solutions Ltd", Address: "312 Forest Avenue, BF 923", Country: "USA"},
	} {
		c.CreatedAt, c.UpdatedAt = now, now
		s.companies[c.ID] = c
	}
	for _, e := range []model.Employee{
		{ID: uuid.MustParse("80abbca8-664d-4b20-b5de-024705497d4a"), CompanyID: it, Name: "Sam Raiden", Age: 26, Position: "Software developer"},
		{ID: uuid.MustParse("86dba8c0-d178-41e7-938c-ed49778fb52a"), CompanyID: it, Name: "Jana McLeaf", Age: 30, Position: "Software developer"},
		{ID: uuid.MustParse("021ca3c1-0deb-4afd-ae94-2159a8479811"), CompanyID: admin, Name: "Kane Miller", Age: 35, Position: "Administrator"},
	} {
		e.CreatedAt, e.UpdatedAt = now, now
		s.employees = append(s.employees, e)
	}
}
