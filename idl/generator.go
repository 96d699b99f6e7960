package idl

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"
)

// giopImport is the wire-value helper package referenced by generated code
const giopImport = "github.com/humanoid-path-planner/hpp-corbaserver-go/giop"

// corbaImport is the runtime package referenced by generated stubs
const corbaImport = "github.com/humanoid-path-planner/hpp-corbaserver-go/corba"

// Generator generates Go stubs and servant skeletons from IDL definitions
type Generator struct {
	module      *Module
	outputDir   string
	packageName string
	templates   *template.Template
	includes    []string
}

// NewGenerator creates a new Go code generator for IDL
func NewGenerator(module *Module, outputDir string) *Generator {
	return &Generator{
		module:      module,
		outputDir:   outputDir,
		packageName: "generated",
		includes:    []string{corbaImport, giopImport},
	}
}

// SetPackageName sets the Go package name to use for generated code
func (g *Generator) SetPackageName(name string) {
	g.packageName = name
}

// AddInclude adds an import to include in generated files
func (g *Generator) AddInclude(include string) {
	g.includes = append(g.includes, include)
}

// Generate generates Go code for all types in the module and its submodules
func (g *Generator) Generate() error {
	if err := os.MkdirAll(g.outputDir, 0755); err != nil {
		return err
	}

	if err := g.initTemplates(); err != nil {
		return err
	}

	return g.generateModule(g.module, g.outputDir)
}

// initTemplates initializes the templates used for code generation
func (g *Generator) initTemplates() error {
	g.templates = template.New("idl").Funcs(template.FuncMap{
		"toLower":      strings.ToLower,
		"idlScope":     func(s string) string { return strings.ReplaceAll(s, "::", "/") },
		"capitalize":   capitalize,
		"uncapitalize": uncapitalize,
		"goType":       g.goType,
		"paramList":    g.paramList,
		"argList":      g.argList,
		"returnTypes":  g.returnTypes,
		"stubBody":     g.stubBody,
		"dispatchCase": g.dispatchCase,
	})

	for _, tmpl := range []struct {
		name string
		text string
	}{
		{"file", fileTemplate},
		{"interface", interfaceTemplate},
		{"typedef", typedefTemplate},
		{"exception", exceptionTemplate},
	} {
		if _, err := g.templates.New(tmpl.name).Parse(tmpl.text); err != nil {
			return err
		}
	}

	return nil
}

// generateModule generates code for a module and its submodules
func (g *Generator) generateModule(module *Module, dir string) error {
	moduleDir := dir
	if module.Name != "" {
		moduleDir = filepath.Join(dir, strings.ToLower(module.Name))
		if err := os.MkdirAll(moduleDir, 0755); err != nil {
			return err
		}
	}

	for _, typ := range module.Types {
		if err := g.generateType(typ, moduleDir); err != nil {
			return err
		}
	}

	for _, submodule := range module.Submodules {
		if err := g.generateModule(submodule, moduleDir); err != nil {
			return err
		}
	}

	return nil
}

// generateType generates one Go file for a type
func (g *Generator) generateType(t Type, dir string) error {
	var buf bytes.Buffer
	var err error

	switch typ := t.(type) {
	case *InterfaceType:
		err = g.templates.ExecuteTemplate(&buf, "interface", map[string]interface{}{
			"Package":   g.packageName,
			"Includes":  g.includes,
			"Interface": typ,
		})

	case *TypeDef:
		err = g.templates.ExecuteTemplate(&buf, "typedef", map[string]interface{}{
			"Package":  g.packageName,
			"Includes": g.includes,
			"TypeDef":  typ,
		})

	case *ExceptionType:
		err = g.templates.ExecuteTemplate(&buf, "exception", map[string]interface{}{
			"Package":   g.packageName,
			"Includes":  g.includes,
			"Exception": typ,
		})

	default:
		return nil
	}

	if err != nil {
		return err
	}

	filename := filepath.Join(dir, strings.ToLower(t.GoTypeName())+".go")
	formatted, err := imports.Process(filename, buf.Bytes(), nil)
	if err != nil {
		// goimports failed; try gofmt alone before giving up
		formatted, err = format.Source(buf.Bytes())
		if err != nil {
			unformattedFile := filename + ".unformatted"
			if werr := os.WriteFile(unformattedFile, buf.Bytes(), 0644); werr != nil {
				return werr
			}
			return fmt.Errorf("failed to format generated code for %s: %v", t.TypeName(), err)
		}
	}

	return os.WriteFile(filename, formatted, 0644)
}

// goType converts an IDL type to a Go type, resolving scoped references
func (g *Generator) goType(t Type) string {
	return g.resolvedGoType(t)
}

// resolvedGoType returns the Go type for t, following typedefs and scoped
// names down to the underlying representation
func (g *Generator) resolvedGoType(t Type) string {
	switch typ := t.(type) {
	case *TypeDef:
		return g.resolvedGoType(typ.OrigType)
	case *ScopedType:
		if resolved, ok := g.module.ResolveType(typ.Name); ok {
			return g.resolvedGoType(resolved)
		}
		return typ.GoTypeName()
	default:
		return t.GoTypeName()
	}
}

// coercion maps a resolved Go type to the wire coercion helper in giop.
// An empty name means the value passes through as interface{}.
type coercion struct {
	fn       string // giop helper name
	wireType string // Go type the helper returns
}

// coercionFor returns the coercion for a resolved Go type
func coercionFor(goType string) coercion {
	switch goType {
	case "bool":
		return coercion{fn: "AsBool", wireType: "bool"}
	case "int16", "int32", "int64", "uint16", "uint32", "uint64", "byte":
		return coercion{fn: "AsLong", wireType: "int64"}
	case "float32", "float64":
		return coercion{fn: "AsDouble", wireType: "float64"}
	case "string":
		return coercion{fn: "AsString", wireType: "string"}
	case "[]float64", "[]float32":
		return coercion{fn: "AsDoubleSeq", wireType: "[]float64"}
	case "[]string":
		return coercion{fn: "AsStringSeq", wireType: "[]string"}
	case "[]byte":
		return coercion{fn: "AsOctetSeq", wireType: "[]byte"}
	default:
		return coercion{}
	}
}

// paramList returns the Go parameter list for an operation
func (g *Generator) paramList(op Operation) string {
	var params []string
	for _, p := range op.Parameters {
		params = append(params, fmt.Sprintf("%s %s", uncapitalize(p.Name), g.resolvedGoType(p.Type)))
	}
	return strings.Join(params, ", ")
}

// argList returns the argument list for forwarding a call
func (g *Generator) argList(op Operation) string {
	var args []string
	for _, p := range op.Parameters {
		args = append(args, uncapitalize(p.Name))
	}
	return strings.Join(args, ", ")
}

// returnTypes returns the Go return type list for an operation
func (g *Generator) returnTypes(op Operation) string {
	ret := g.resolvedGoType(op.ReturnType)
	if ret == "" {
		return "error"
	}
	return fmt.Sprintf("(%s, error)", ret)
}

// stubBody emits the body of a generated client stub method
func (g *Generator) stubBody(intfName string, op Operation) string {
	var sb strings.Builder
	ret := g.resolvedGoType(op.ReturnType)

	invoke := fmt.Sprintf("stub.ObjectRef.Invoke(%q", op.Name)
	for _, p := range op.Parameters {
		invoke += ", " + uncapitalize(p.Name)
	}
	invoke += ")"

	if ret == "" {
		fmt.Fprintf(&sb, "\t_, err := %s\n", invoke)
		sb.WriteString("\treturn err\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "\tresult, err := %s\n", invoke)
	sb.WriteString("\tif err != nil {\n")
	fmt.Fprintf(&sb, "\t\tvar zero %s\n", ret)
	sb.WriteString("\t\treturn zero, err\n")
	sb.WriteString("\t}\n")

	c := coercionFor(ret)
	switch {
	case c.fn == "":
		sb.WriteString("\treturn result, nil\n")
	case c.wireType == ret:
		fmt.Fprintf(&sb, "\treturn giop.%s(result)\n", c.fn)
	default:
		fmt.Fprintf(&sb, "\tv, err := giop.%s(result)\n", c.fn)
		sb.WriteString("\tif err != nil {\n")
		fmt.Fprintf(&sb, "\t\tvar zero %s\n", ret)
		sb.WriteString("\t\treturn zero, err\n")
		sb.WriteString("\t}\n")
		fmt.Fprintf(&sb, "\treturn %s(v), nil\n", ret)
	}

	return sb.String()
}

// dispatchCase emits the body of one servant dispatch case, converting wire
// arguments to the operation's declared types before calling the
// implementation
func (g *Generator) dispatchCase(op Operation) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\t\tif len(args) != %d {\n", len(op.Parameters))
	fmt.Fprintf(&sb, "\t\t\treturn nil, fmt.Errorf(\"%s expects %d arguments, got %%d\", len(args))\n",
		op.Name, len(op.Parameters))
	sb.WriteString("\t\t}\n")

	var callArgs []string
	for i, p := range op.Parameters {
		name := fmt.Sprintf("arg%d", i)
		goType := g.resolvedGoType(p.Type)
		c := coercionFor(goType)

		switch {
		case c.fn == "":
			fmt.Fprintf(&sb, "\t\t%s := args[%d]\n", name, i)
			callArgs = append(callArgs, name)
		case c.wireType == goType:
			fmt.Fprintf(&sb, "\t\t%s, err := giop.%s(args[%d])\n", name, c.fn, i)
			fmt.Fprintf(&sb, "\t\tif err != nil {\n\t\t\treturn nil, fmt.Errorf(\"%s: %%w\", err)\n\t\t}\n", op.Name)
			callArgs = append(callArgs, name)
		default:
			raw := name + "Raw"
			fmt.Fprintf(&sb, "\t\t%s, err := giop.%s(args[%d])\n", raw, c.fn, i)
			fmt.Fprintf(&sb, "\t\tif err != nil {\n\t\t\treturn nil, fmt.Errorf(\"%s: %%w\", err)\n\t\t}\n", op.Name)
			fmt.Fprintf(&sb, "\t\t%s := %s(%s)\n", name, goType, raw)
			callArgs = append(callArgs, name)
		}
	}

	ret := g.resolvedGoType(op.ReturnType)
	call := fmt.Sprintf("servant.Impl.%s(%s)", capitalize(op.Name), strings.Join(callArgs, ", "))
	if ret == "" {
		fmt.Fprintf(&sb, "\t\treturn nil, %s\n", call)
	} else {
		fmt.Fprintf(&sb, "\t\treturn %s\n", call)
	}

	return sb.String()
}

// capitalize returns a string with the first letter capitalized
func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// uncapitalize returns a string with the first letter lowercased
func uncapitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// Template for the generated file header
const fileTemplate = `// Code generated by idlgen. DO NOT EDIT.
package {{.Package}}

import (
	"fmt"
	{{range .Includes}}
	"{{.}}"
	{{end}}
)
`

// Template for a Go interface, stub and servant from an IDL interface
const interfaceTemplate = `{{template "file" .}}

// {{.Interface.Name}} is a CORBA interface
type {{.Interface.Name}} interface {
	{{range .Interface.Operations}}
	{{capitalize .Name}}({{paramList .}}) {{returnTypes .}}
	{{end}}
}

// {{.Interface.Name}}Helper provides utility functions for {{.Interface.Name}}
type {{.Interface.Name}}Helper struct{}

// ID returns the repository ID for {{.Interface.Name}}
func (h *{{.Interface.Name}}Helper) ID() string {
	return "IDL:{{if .Interface.Module}}{{idlScope .Interface.Module}}/{{end}}{{.Interface.Name}}:1.0"
}

// Narrow converts a generic object to {{.Interface.Name}}
func (h *{{.Interface.Name}}Helper) Narrow(obj interface{}) ({{.Interface.Name}}, error) {
	if obj == nil {
		return nil, fmt.Errorf("cannot narrow nil object to {{.Interface.Name}}")
	}
	if intf, ok := obj.({{.Interface.Name}}); ok {
		return intf, nil
	}
	return nil, fmt.Errorf("object does not implement {{.Interface.Name}}")
}

// {{.Interface.Name}}Stub is the client-side proxy for {{.Interface.Name}}
type {{.Interface.Name}}Stub struct {
	ObjectRef *corba.ObjectRef
}

{{range .Interface.Operations}}
// {{capitalize .Name}} invokes the {{.Name}} operation on the remote object
func (stub *{{$.Interface.Name}}Stub) {{capitalize .Name}}({{paramList .}}) {{returnTypes .}} {
{{stubBody $.Interface.Name .}}}
{{end}}

// {{.Interface.Name}}Servant dispatches incoming requests to an implementation
type {{.Interface.Name}}Servant struct {
	Impl {{.Interface.Name}}
}

// Dispatch handles incoming method calls to the servant
func (servant *{{.Interface.Name}}Servant) Dispatch(methodName string, args []interface{}) (interface{}, error) {
	switch methodName {
	{{range .Interface.Operations}}
	case "{{.Name}}":
{{dispatchCase .}}
	{{end}}
	default:
		return nil, fmt.Errorf("method %s not found", methodName)
	}
}
`

// Template for a Go typedef from an IDL typedef
const typedefTemplate = `{{template "file" .}}

// {{.TypeDef.Name}} is the IDL typedef {{.TypeDef.Name}}
type {{.TypeDef.Name}} = {{goType .TypeDef.OrigType}}

// {{.TypeDef.Name}}Helper provides utility functions for {{.TypeDef.Name}}
type {{.TypeDef.Name}}Helper struct{}

// ID returns the repository ID for {{.TypeDef.Name}}
func (h *{{.TypeDef.Name}}Helper) ID() string {
	return "IDL:{{if .TypeDef.Module}}{{idlScope .TypeDef.Module}}/{{end}}{{.TypeDef.Name}}:1.0"
}
`

// Template for a Go error type from an IDL exception
const exceptionTemplate = `{{template "file" .}}

// {{.Exception.Name}} is the IDL exception {{.Exception.Name}}
type {{.Exception.Name}} struct {
	{{range .Exception.Members}}
	{{capitalize .Name}} {{goType .Type}}
	{{end}}
}

// Error implements the error interface
func (e *{{.Exception.Name}}) Error() string {
	return fmt.Sprintf("{{.Exception.Name}}: %v", *e)
}

// {{.Exception.Name}}Helper provides utility functions for {{.Exception.Name}}
type {{.Exception.Name}}Helper struct{}

// ID returns the repository ID for {{.Exception.Name}}
func (h *{{.Exception.Name}}Helper) ID() string {
	return "IDL:{{if .Exception.Module}}{{idlScope .Exception.Module}}/{{end}}{{.Exception.Name}}:1.0"
}
`
