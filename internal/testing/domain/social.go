package domain

// Entity is the base of the social model.
type Entity struct {
	ID *int64
}

// Person is a node entity labelled Person.
type Person struct {
	Entity
	Name       string
	BestFriend *Person
	Friends    []*Person
}

// Individual is a Person with personal details.
type Individual struct {
	Person
	Age         int
	Nicknames   []string
	Memberships map[*Club]struct{}
}

// Club is a group individuals belong to.
type Club struct {
	Entity
	Title string
}

// ArbitraryRelationshipEntity is stored as a MEMBER_OF relationship.
type ArbitraryRelationshipEntity struct {
	ID     *int64
	Since  int
	Member *Individual
	Club   *Club
}

// ClassWithoutZeroArgumentConstructor has no usable constructor binding.
type ClassWithoutZeroArgumentConstructor struct {
	ID   *int64
	Name string
}

// NewClassWithoutZeroArgumentConstructor is the only way to build one.
func NewClassWithoutZeroArgumentConstructor(name string) *ClassWithoutZeroArgumentConstructor {
	return &ClassWithoutZeroArgumentConstructor{Name: name}
}
