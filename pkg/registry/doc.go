/*
Package registry declares how markup tags map to transforms.

A Registry binds each tag either to a Binding (a Transform plus its parent guard and
attribute schema) or to a nested Registry that takes over the tag's whole subtree.
Registries are built once at setup time; arbor.New freezes them before the first build.

	people := registry.New("people")
	people.MustRegister("person", newPerson, registry.WithGuard(registry.Is[*World]()))
	people.MustRegister("name", setName)

	world := registry.New("world")
	world.MustRegister("world", newWorld, registry.WithGuard(registry.Root()))
	world.MustMount("person", people)

Transforms return a Result: Value for plain objects, Enter for an explicit enter/exit pair,
or Yield for generator-style transforms that suspend exactly once while children are built.
*/
package registry
