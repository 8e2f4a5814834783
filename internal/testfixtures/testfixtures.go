// Package testfixtures holds the small Record implementations the test
// suites for pkg/catalog and pkg/undoredo share: the Person/Dog types the
// concurrency and prototype-inheritance scenarios are written against.
package testfixtures

import "github.com/edirooss/canonstore/pkg/record"

// Person is a value record type with no nested mutable state, so Clone
// can return the receiver by value.
type Person struct {
	Name    string
	FavFood string
	Age     int
}

func (Person) TypeName() string { return "person" }
func (p Person) Clone() Person  { return p }
func (Person) Default() Person  { return Person{} }
func (p Person) ProtoUpdate(oldProto, newProto Person) Person {
	return Person{
		Name:    record.MergeField(p.Name, oldProto.Name, newProto.Name),
		FavFood: record.MergeField(p.FavFood, oldProto.FavFood, newProto.FavFood),
		Age:     record.MergeField(p.Age, oldProto.Age, newProto.Age),
	}
}

// Dog is a second, unrelated record type used by scenarios that need more
// than one watched type to exercise cross-catalog LSN ordering.
type Dog struct {
	Name  string
	Breed string
}

func (Dog) TypeName() string { return "dog" }
func (d Dog) Clone() Dog     { return d }
func (Dog) Default() Dog     { return Dog{} }
func (d Dog) ProtoUpdate(oldProto, newProto Dog) Dog {
	return Dog{
		Name:  record.MergeField(d.Name, oldProto.Name, newProto.Name),
		Breed: record.MergeField(d.Breed, oldProto.Breed, newProto.Breed),
	}
}
