package domain

import "github.com/conduit-lang/ogm/internal/orm/descriptor"

func ann(name string, kv ...string) descriptor.Annotation {
	a := descriptor.Annotation{Name: name}
	if len(kv) > 0 {
		a.Attributes = make(map[string]string, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			a.Attributes[kv[i]] = kv[i+1]
		}
	}
	return a
}

func field(name, sig, tp string, anns ...descriptor.Annotation) descriptor.Member {
	return descriptor.Member{Name: name, Signature: sig, TypeParameter: tp, Annotations: anns}
}

var idField = field("ID", "*int64", "")

// BikeClasses describes Bike, Wheel, Frame, its Finish enum and Saddle.
func BikeClasses() []*descriptor.Class {
	return []*descriptor.Class{
		{
			Name: Q("Bike"),
			Fields: []descriptor.Member{
				idField,
				field("Brand", "string", ""),
				field("Colours", "[]string", "string"),
				field("Purchased", "time.Time", ""),
				field("Wheels", "[]*"+Q("Wheel"), "*"+Q("Wheel")),
				field("Frame", "*"+Q("Frame"), ""),
				field("Saddle", "*"+Q("Saddle"), ""),
			},
			Methods: []descriptor.Member{
				field("SetWheels", "[]*"+Q("Wheel"), "*"+Q("Wheel")),
				field("SetFrame", "*"+Q("Frame"), ""),
				field("SetSaddle", "*"+Q("Saddle"), ""),
			},
		},
		{
			Name:   Q("Wheel"),
			Fields: []descriptor.Member{idField, field("Spokes", "*int", "")},
		},
		{
			Name: Q("Frame"),
			Fields: []descriptor.Member{
				idField,
				field("Size", "*int", ""),
				field("Finish", Q("Finish"), ""),
			},
		},
		{
			Name:       Q("Finish"),
			IsEnum:     true,
			EnumValues: []string{"Matte", "Gloss", "Satin"},
		},
		{
			Name: Q("Saddle"),
			Fields: []descriptor.Member{
				idField,
				field("Price", "*float64", ""),
				field("Material", "string", ""),
			},
		},
	}
}

// SocialClasses describes the Entity, Person, Individual and Club hierarchy
// and its relationship entity.
func SocialClasses() []*descriptor.Class {
	return []*descriptor.Class{
		{
			Name:        Q("Individual"),
			Superclass:  Q("Person"),
			Annotations: []descriptor.Annotation{ann(descriptor.NodeEntity)},
			Fields: []descriptor.Member{
				field("Age", "int", ""),
				field("Nicknames", "[]string", "string"),
				field("Memberships", "map[*"+Q("Club")+"]struct{}", "*"+Q("Club"),
					ann(descriptor.Relationship, descriptor.AttrType, "BELONGS_TO")),
			},
		},
		{
			Name:        Q("Person"),
			Superclass:  Q("Entity"),
			Annotations: []descriptor.Annotation{ann(descriptor.NodeEntity, descriptor.AttrLabel, "Person")},
			Fields: []descriptor.Member{
				field("Name", "string", "", ann(descriptor.Property, descriptor.AttrName, "name")),
				field("BestFriend", "*"+Q("Person"), "",
					ann(descriptor.Relationship, descriptor.AttrType, "BEST_FRIEND")),
				field("Friends", "[]*"+Q("Person"), "*"+Q("Person"),
					ann(descriptor.Relationship, descriptor.AttrType, "FRIEND_OF", descriptor.AttrDirection, "undirected")),
			},
		},
		{
			Name:       Q("Entity"),
			Superclass: descriptor.RootType,
			Fields:     []descriptor.Member{field("ID", "*int64", "", ann(descriptor.GraphID))},
		},
		{
			Name:        Q("Club"),
			Superclass:  Q("Entity"),
			Annotations: []descriptor.Annotation{ann(descriptor.NodeEntity)},
			Fields:      []descriptor.Member{field("Title", "string", "")},
		},
		{
			Name:        Q("ArbitraryRelationshipEntity"),
			Annotations: []descriptor.Annotation{ann(descriptor.RelationshipEntity, descriptor.AttrType, "MEMBER_OF")},
			Fields: []descriptor.Member{
				idField,
				field("Since", "int", ""),
				field("Member", "*"+Q("Individual"), "", ann(descriptor.StartNode)),
				field("Club", "*"+Q("Club"), "", ann(descriptor.EndNode)),
			},
		},
		{
			Name:   Q("ClassWithoutZeroArgumentConstructor"),
			Fields: []descriptor.Member{idField, field("Name", "string", "")},
		},
	}
}

// AllClasses returns the bike and social descriptors together.
func AllClasses() []*descriptor.Class {
	return append(BikeClasses(), SocialClasses()...)
}
