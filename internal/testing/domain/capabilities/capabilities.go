// Package capabilities binds the fixture domain types into an entity table.
package capabilities

import (
	"time"

	"github.com/conduit-lang/ogm/internal/orm/entity"
	"github.com/conduit-lang/ogm/internal/testing/domain"
)

func id[T any](get func(*T) *int64, set func(*T, *int64)) entity.Property {
	return entity.Prop(get, set)
}

// Bike returns the bindings of the bike model.
func Bike() []*entity.Binding {
	return []*entity.Binding{
		entity.Bind[domain.Bike](domain.Q("Bike"), map[string]entity.Property{
			"ID": id(func(b *domain.Bike) *int64 { return b.ID }, func(b *domain.Bike, v *int64) { b.ID = v }),
			"Brand": entity.Prop(
				func(b *domain.Bike) string { return b.Brand },
				func(b *domain.Bike, v string) { b.Brand = v }),
			"Colours": entity.Prop(
				func(b *domain.Bike) []string { return b.Colours },
				func(b *domain.Bike, v []string) { b.Colours = v }),
			"Purchased": entity.Prop(
				func(b *domain.Bike) time.Time { return b.Purchased },
				func(b *domain.Bike, v time.Time) { b.Purchased = v }),
		},
			entity.Many("SetWheels", (*domain.Bike).SetWheels),
			entity.One("SetFrame", (*domain.Bike).SetFrame),
			entity.One("SetSaddle", (*domain.Bike).SetSaddle),
		),
		entity.Bind[domain.Wheel](domain.Q("Wheel"), map[string]entity.Property{
			"ID": id(func(w *domain.Wheel) *int64 { return w.ID }, func(w *domain.Wheel, v *int64) { w.ID = v }),
			"Spokes": entity.Prop(
				func(w *domain.Wheel) *int { return w.Spokes },
				func(w *domain.Wheel, v *int) { w.Spokes = v }),
		}),
		entity.Bind[domain.Frame](domain.Q("Frame"), map[string]entity.Property{
			"ID": id(func(f *domain.Frame) *int64 { return f.ID }, func(f *domain.Frame, v *int64) { f.ID = v }),
			"Size": entity.Prop(
				func(f *domain.Frame) *int { return f.Size },
				func(f *domain.Frame, v *int) { f.Size = v }),
			"Finish": entity.Prop(
				func(f *domain.Frame) domain.Finish { return f.Finish },
				func(f *domain.Frame, v domain.Finish) { f.Finish = v }),
		}),
		entity.Bind[domain.Saddle](domain.Q("Saddle"), map[string]entity.Property{
			"ID": id(func(s *domain.Saddle) *int64 { return s.ID }, func(s *domain.Saddle, v *int64) { s.ID = v }),
			"Price": entity.Prop(
				func(s *domain.Saddle) *float64 { return s.Price },
				func(s *domain.Saddle, v *float64) { s.Price = v }),
			"Material": entity.Prop(
				func(s *domain.Saddle) string { return s.Material },
				func(s *domain.Saddle, v string) { s.Material = v }),
		}),
	}
}

// Social returns the bindings of the social model. Entity and
// ClassWithoutZeroArgumentConstructor are left unbound.
func Social() []*entity.Binding {
	return []*entity.Binding{
		entity.Bind[domain.Person](domain.Q("Person"), map[string]entity.Property{
			"ID": id(func(p *domain.Person) *int64 { return p.ID }, func(p *domain.Person, v *int64) { p.ID = v }),
			"Name": entity.Prop(
				func(p *domain.Person) string { return p.Name },
				func(p *domain.Person, v string) { p.Name = v }),
		},
			entity.One("BestFriend", func(p *domain.Person, v *domain.Person) { p.BestFriend = v }),
			entity.Many("Friends", func(p *domain.Person, v []*domain.Person) { p.Friends = v }),
		),
		entity.Bind[domain.Individual](domain.Q("Individual"), map[string]entity.Property{
			"ID": id(func(i *domain.Individual) *int64 { return i.ID }, func(i *domain.Individual, v *int64) { i.ID = v }),
			"Name": entity.Prop(
				func(i *domain.Individual) string { return i.Name },
				func(i *domain.Individual, v string) { i.Name = v }),
			"Age": entity.Prop(
				func(i *domain.Individual) int { return i.Age },
				func(i *domain.Individual, v int) { i.Age = v }),
			"Nicknames": entity.Prop(
				func(i *domain.Individual) []string { return i.Nicknames },
				func(i *domain.Individual, v []string) { i.Nicknames = v }),
		},
			entity.SetOf("Memberships", func(i *domain.Individual, v map[*domain.Club]struct{}) { i.Memberships = v }),
			entity.One("BestFriend", func(i *domain.Individual, v *domain.Person) { i.BestFriend = v }),
			entity.Many("Friends", func(i *domain.Individual, v []*domain.Person) { i.Friends = v }),
		),
		entity.Bind[domain.Club](domain.Q("Club"), map[string]entity.Property{
			"ID": id(func(c *domain.Club) *int64 { return c.ID }, func(c *domain.Club, v *int64) { c.ID = v }),
			"Title": entity.Prop(
				func(c *domain.Club) string { return c.Title },
				func(c *domain.Club, v string) { c.Title = v }),
		}),
		entity.Bind[domain.ArbitraryRelationshipEntity](domain.Q("ArbitraryRelationshipEntity"), map[string]entity.Property{
			"ID": id(func(r *domain.ArbitraryRelationshipEntity) *int64 { return r.ID },
				func(r *domain.ArbitraryRelationshipEntity, v *int64) { r.ID = v }),
			"Since": entity.Prop(
				func(r *domain.ArbitraryRelationshipEntity) int { return r.Since },
				func(r *domain.ArbitraryRelationshipEntity, v int) { r.Since = v }),
		},
			entity.One("Member", func(r *domain.ArbitraryRelationshipEntity, v *domain.Individual) { r.Member = v }),
			entity.One("Club", func(r *domain.ArbitraryRelationshipEntity, v *domain.Club) { r.Club = v }),
		),
		{Name: domain.Q("ClassWithoutZeroArgumentConstructor")},
	}
}

// Table returns a table holding every fixture binding.
func Table() *entity.Table {
	return entity.NewTable(append(Bike(), Social()...)...)
}
