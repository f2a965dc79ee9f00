package runtime

import (
	"errors"
	"testing"

	"github.com/aretw0/arbor/internal/testutils"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type weapon struct {
	Name string
	Type string
}

type person struct {
	Name   string
	Weapon *weapon
}

type world struct {
	Title       string
	Description string
	People      []*person
	Names       []string
}

const worldDoc = `<object>
    <title>New World</title>
    <description>Something exciting.</description>
    <person>
        <name>John</name>
        <weapon>
            <name>Codebreaker</name>
        </weapon>
    </person>
    <person>
        <name>Ellie</name>
        <weapon>
            <name>Code Fixer</name>
            <type>hammer</type>
        </weapon>
    </person>
    <name>after people</name>
</object>`

func worldRegistry() *registry.Registry {
	weapons := registry.New("weapons")
	weapons.MustRegister("weapon", registry.Func(func(parent any, _ domain.Text, _ registry.Args) (any, error) {
		w := &weapon{Name: "Unnamed Weapon", Type: "sword"}
		parent.(*person).Weapon = w
		return w, nil
	}), registry.WithGuard(registry.Is[*person]()))
	weapons.MustRegister("name", registry.Func(func(parent any, text domain.Text, _ registry.Args) (any, error) {
		parent.(*weapon).Name = text.Value
		return parent, nil
	}), registry.WithGuard(registry.Is[*weapon]()))
	weapons.MustRegister("type", registry.Func(func(parent any, text domain.Text, _ registry.Args) (any, error) {
		parent.(*weapon).Type = text.Value
		return parent, nil
	}))

	people := registry.New("people")
	people.MustRegister("person", registry.Func(func(parent any, _ domain.Text, _ registry.Args) (any, error) {
		p := &person{Name: "Unnamed Person"}
		w := parent.(*world)
		w.People = append(w.People, p)
		return p, nil
	}), registry.WithGuard(registry.Is[*world]()))
	people.MustRegister("name", registry.Func(func(parent any, text domain.Text, _ registry.Args) (any, error) {
		parent.(*person).Name = text.Value
		return parent, nil
	}), registry.WithGuard(registry.Is[*person]()))
	people.MustMount("weapon", weapons)

	objects := registry.New("objects")
	objects.MustRegister("object", registry.Func(func(any, domain.Text, registry.Args) (any, error) {
		return &world{Title: "Untitled Object", Description: "You see nothing special."}, nil
	}), registry.WithGuard(registry.Root()))
	objects.MustRegister("title", registry.Func(func(parent any, text domain.Text, _ registry.Args) (any, error) {
		parent.(*world).Title = text.Value
		return parent, nil
	}))
	objects.MustRegister("description", registry.Func(func(parent any, text domain.Text, _ registry.Args) (any, error) {
		parent.(*world).Description = text.Value
		return parent, nil
	}))
	// The object-level "name" must never be used inside a person subtree.
	objects.MustRegister("name", registry.Func(func(parent any, text domain.Text, _ registry.Args) (any, error) {
		w := parent.(*world)
		w.Names = append(w.Names, text.Value)
		return parent, nil
	}), registry.WithGuard(registry.Is[*world]()))
	objects.MustMount("person", people)
	return objects
}

func TestProcess_NestedSubRegistries(t *testing.T) {
	obj, err := NewDispatcher().Process(worldRegistry(), testutils.ParseXML(t, worldDoc), domain.NoParent)
	require.NoError(t, err)

	w := obj.(*world)
	assert.Equal(t, "New World", w.Title)
	assert.Equal(t, "Something exciting.", w.Description)
	require.Len(t, w.People, 2)

	assert.Equal(t, &person{Name: "John", Weapon: &weapon{Name: "Codebreaker", Type: "sword"}}, w.People[0])
	assert.Equal(t, &person{Name: "Ellie", Weapon: &weapon{Name: "Code Fixer", Type: "hammer"}}, w.People[1])

	// Siblings after a delegated subtree resolve in the enclosing registry again.
	assert.Equal(t, []string{"after people"}, w.Names)
}

func TestProcess_SubRegistryOwnsTriggeringTag(t *testing.T) {
	// The sub-registry resolves the triggering tag against its own bindings.
	// Without a "person" binding of its own the node is unhandled there.
	people := registry.New("people")
	objects := registry.New("objects").
		MustRegister("object", registry.Func(func(any, domain.Text, registry.Args) (any, error) { return &world{}, nil })).
		MustMount("person", people)

	root := testutils.ParseXML(t, `<object><person/></object>`)
	_, err := NewDispatcher().Process(objects, root, domain.NoParent)

	var unhandled *domain.UnhandledElementError
	require.True(t, errors.As(err, &unhandled))
	assert.Same(t, people, unhandled.Registry)
	assert.Same(t, root.Children[0], unhandled.Node)
}

func TestProcess_SubRegistryDoesNotSeeParentBindings(t *testing.T) {
	_, err := NewDispatcher().Process(worldRegistry(), testutils.ParseXML(t, `<object><person><title>x</title></person></object>`), domain.NoParent)

	var unhandled *domain.UnhandledElementError
	require.True(t, errors.As(err, &unhandled))
	assert.Equal(t, "people", unhandled.Registry.Name())
	assert.Equal(t, "title", unhandled.Node.Tag)
}

func TestProcess_Idempotent(t *testing.T) {
	reg := worldRegistry()
	d := NewDispatcher()

	first, err := d.Process(reg, testutils.ParseXML(t, worldDoc), domain.NoParent)
	require.NoError(t, err)
	second, err := d.Process(reg, testutils.ParseXML(t, worldDoc), domain.NoParent)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, first, second)
}
