/*
Package vocab declares arbor registries in YAML instead of Go.

A vocabulary lists the tags a document may use, the attributes each tag binds,
which parents it may appear under and, optionally, a nested vocabulary that
takes over a subtree. Compile turns it into a registry whose transforms build a
generic Element tree, which is what the arbor CLI and HTTP server emit.

	name: world
	tags:
	  - tag: world
	    parents: ["/"]
	  - tag: person
	    parents: [world]
	    params:
	      - name: name
	        required: true
*/
package vocab
