package record_test

import (
	"github.com/satishbabariya/activerecord/pkg/record"
)

type Status int

const (
	Living Status = iota
	Deceased
)

type Person struct {
	record.Model
	Name   string
	Status Status
	Dogs   record.Many[*Dog]
}

type personMapping struct{}

func (personMapping) Table() string     { return "person" }
func (personMapping) IDColumn() string  { return "id" }
func (personMapping) Columns() []string { return []string{"id", "name", "status"} }

func (personMapping) FromRow(s *record.Session, row record.Row) (*Person, error) {
	id, err := row.NullInt64("id")
	if err != nil {
		return nil, err
	}
	name, err := row.String("name")
	if err != nil {
		return nil, err
	}
	status, err := row.Int("status")
	if err != nil {
		return nil, err
	}
	p := &Person{Model: record.Model{ID: id}, Name: name, Status: Status(status)}
	if id != nil {
		p.Dogs = record.ManyOf[*Dog](s, "owner_id", *id)
	}
	return p, nil
}

func (personMapping) ToTuple(p *Person) ([]string, []interface{}) {
	return []string{"name", "status"}, []interface{}{p.Name, int(p.Status)}
}

func (personMapping) ID(p *Person) (interface{}, bool)       { return p.Identifier() }
func (personMapping) SetID(p *Person, id interface{}) error { return p.AssignID(id) }

type Dog struct {
	record.Model
	Name  string
	Race  string
	Owner record.Ref[*Person]
}

type dogMapping struct{}

func (dogMapping) Table() string     { return "dog" }
func (dogMapping) IDColumn() string  { return "id" }
func (dogMapping) Columns() []string { return []string{"id", "name", "race", "owner_id"} }

func (dogMapping) FromRow(s *record.Session, row record.Row) (*Dog, error) {
	id, err := row.NullInt64("id")
	if err != nil {
		return nil, err
	}
	name, err := row.String("name")
	if err != nil {
		return nil, err
	}
	race, err := row.String("race")
	if err != nil {
		return nil, err
	}
	owner, err := row.NullInt64("owner_id")
	if err != nil {
		return nil, err
	}
	d := &Dog{Model: record.Model{ID: id}, Name: name, Race: race}
	if owner != nil {
		d.Owner = record.RefTo[*Person](s, *owner)
	}
	return d, nil
}

func (dogMapping) ToTuple(d *Dog) ([]string, []interface{}) {
	owner, ok := d.Owner.Key(personMapping{})
	if !ok {
		owner = nil
	}
	return []string{"name", "race", "owner_id"}, []interface{}{d.Name, d.Race, owner}
}

func (dogMapping) ID(d *Dog) (interface{}, bool)       { return d.Identifier() }
func (dogMapping) SetID(d *Dog, id interface{}) error { return d.AssignID(id) }

// PersonDAO is the repository style: a named type with its own finders.
type PersonDAO struct {
	*record.Repository[*Person]
}

func (d PersonDAO) FindByName(name string) *record.Query[*Person] {
	return d.Find("name", name)
}

const schema = `
CREATE TABLE person (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	status INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE dog (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	race TEXT,
	owner_id INTEGER
);
`
