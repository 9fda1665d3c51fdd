package usage

import (
	"unsafe"

	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/jenian/envguard/internal/scanner"
)

// captures holds the text of each named capture of one query match.
// Every pattern captures exactly one of key, expr or var as the
// argument; the other captures identify the call.
type captures map[string]string

// grammar describes how to find environment lookups in one language.
type grammar struct {
	language func() unsafe.Pointer
	query    string
	// accept reports whether the captured call is an environment lookup.
	accept func(c captures) bool
}

var grammars = map[scanner.Language]grammar{
	scanner.LanguageGo: {
		language: tree_sitter_go.Language,
		query:    goQuery,
		accept: func(c captures) bool {
			return c["obj"] == "os" && (c["fn"] == "Getenv" || c["fn"] == "LookupEnv")
		},
	},
	scanner.LanguageJavaScript: {
		language: tree_sitter_javascript.Language,
		query:    jsQuery,
		accept:   acceptProcessEnv,
	},
	scanner.LanguageTypeScript: {
		language: tree_sitter_typescript.LanguageTypescript,
		query:    jsQuery,
		accept:   acceptProcessEnv,
	},
	scanner.LanguagePython: {
		language: tree_sitter_python.Language,
		query:    pythonQuery,
		accept: func(c captures) bool {
			return c["obj"] == "os" && (c["attr"] == "environ" || c["fn"] == "getenv")
		},
	},
	scanner.LanguageRust: {
		language: tree_sitter_rust.Language,
		query:    rustQuery,
		accept: func(c captures) bool {
			if c["fn"] != "var" && c["fn"] != "var_os" {
				return false
			}
			if root, ok := c["root"]; ok {
				return root == "std" && c["path"] == "env"
			}
			return c["path"] == "env"
		},
	},
	scanner.LanguageJava: {
		language: tree_sitter_java.Language,
		query:    javaQuery,
		accept: func(c captures) bool {
			if c["obj"] != "System" {
				return false
			}
			if inner, ok := c["inner"]; ok {
				return inner == "getenv" && c["method"] == "get"
			}
			return c["method"] == "getenv"
		},
	},
}

func acceptProcessEnv(c captures) bool {
	return c["obj"] == "process" && c["prop"] == "env"
}

// os.Getenv(...) and os.LookupEnv(...)
const goQuery = `
(call_expression
  function: (selector_expression
    operand: (identifier) @obj
    field: (field_identifier) @fn)
  arguments: (argument_list
    [(interpreted_string_literal) @key
     (raw_string_literal) @key
     (binary_expression) @expr
     (identifier) @var]))
`

// process.env.KEY and process.env[...]
const jsQuery = `
(member_expression
  object: (member_expression
    object: (identifier) @obj
    property: (property_identifier) @prop)
  property: (property_identifier) @key)
(subscript_expression
  object: (member_expression
    object: (identifier) @obj
    property: (property_identifier) @prop)
  index: [(string) @key
          (binary_expression) @expr
          (identifier) @var])
`

// os.environ[...] and os.getenv(...); only the first getenv argument is
// the key, the second is a default.
const pythonQuery = `
(subscript
  value: (attribute
    object: (identifier) @obj
    attribute: (identifier) @attr)
  subscript: [(string) @key
              (binary_operator) @expr
              (identifier) @var])
(call
  function: (attribute
    object: (identifier) @obj
    attribute: (identifier) @fn)
  arguments: (argument_list .
    [(string) @key
     (binary_operator) @expr
     (identifier) @var]))
`

// env::var(...) and std::env::var(...)
const rustQuery = `
(call_expression
  function: (scoped_identifier
    path: (identifier) @path
    name: (identifier) @fn)
  arguments: (arguments
    [(string_literal) @key
     (binary_expression) @expr
     (identifier) @var]))
(call_expression
  function: (scoped_identifier
    path: (scoped_identifier
      path: (identifier) @root
      name: (identifier) @path)
    name: (identifier) @fn)
  arguments: (arguments
    [(string_literal) @key
     (binary_expression) @expr
     (identifier) @var]))
`

// System.getenv(...) and System.getenv().get(...)
const javaQuery = `
(method_invocation
  object: (identifier) @obj
  name: (identifier) @method
  arguments: (argument_list
    [(string_literal) @key
     (binary_expression) @expr
     (identifier) @var]))
(method_invocation
  object: (method_invocation
    object: (identifier) @obj
    name: (identifier) @inner)
  name: (identifier) @method
  arguments: (argument_list
    [(string_literal) @key
     (binary_expression) @expr
     (identifier) @var]))
`
