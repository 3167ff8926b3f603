// Package markdown extracts document structure from Markdown sources using goldmark.
//
// Toctree directives are written as MyST fenced blocks:
//
//	```{toctree}
//	:maxdepth: 2
//	:caption: Guides
//
//	install
//	Configuration <reference/config>
//	```
package markdown
