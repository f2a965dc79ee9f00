/*
Package ports defines the interfaces between the arbor builder and its external collaborators.

# Key Interfaces

  - TreeParser: turns markup bytes into a domain.Node tree (XML and YAML adapters ship with arbor).
  - DocumentSource: fetches whole documents by key (memory, file system and Redis adapters).
*/
package ports
