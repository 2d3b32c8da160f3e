package codegen

import (
	"fmt"
	"go/ast"
	"go/token"

	"github.com/tinypb/tinypb-go/gencfg"
)

// AST helper functions for building the generated Go source.

func newFile(packageName string) *ast.File {
	return &ast.File{
		Name:  ast.NewIdent(packageName),
		Decls: []ast.Decl{},
	}
}

// importEntry is one import to emit. Name is set only when the package
// qualifier differs from the last element of the import path.
type importEntry struct {
	Name string
	Path string
}

func addImports(file *ast.File, imports []importEntry) {
	if len(imports) == 0 {
		return
	}
	specs := make([]ast.Spec, len(imports))
	for i, imp := range imports {
		spec := &ast.ImportSpec{
			Path: &ast.BasicLit{Kind: token.STRING, Value: fmt.Sprintf("%q", imp.Path)},
		}
		if imp.Name != "" {
			spec.Name = ast.NewIdent(imp.Name)
		}
		specs[i] = spec
	}
	decl := &ast.GenDecl{Tok: token.IMPORT, Specs: specs}
	if len(specs) > 1 {
		decl.Lparen = 1
	}
	// Imports go before every other declaration.
	file.Decls = append([]ast.Decl{decl}, file.Decls...)
}

func newStructType(fields []*ast.Field) *ast.StructType {
	return &ast.StructType{Fields: &ast.FieldList{List: fields}}
}

func newField(name string, typeExpr ast.Expr, tag string) *ast.Field {
	field := &ast.Field{
		Names: []*ast.Ident{ast.NewIdent(name)},
		Type:  typeExpr,
	}
	if tag != "" {
		field.Tag = &ast.BasicLit{Kind: token.STRING, Value: tag}
	}
	return field
}

func newTypeDecl(name string, typeExpr ast.Expr) *ast.GenDecl {
	return &ast.GenDecl{
		Tok: token.TYPE,
		Specs: []ast.Spec{
			&ast.TypeSpec{Name: ast.NewIdent(name), Type: typeExpr},
		},
	}
}

func newConstDecl(specs []ast.Spec) *ast.GenDecl {
	return &ast.GenDecl{Tok: token.CONST, Specs: specs, Lparen: 1}
}

func newConstSpec(name string, typ ast.Expr, value ast.Expr) *ast.ValueSpec {
	spec := &ast.ValueSpec{
		Names:  []*ast.Ident{ast.NewIdent(name)},
		Values: []ast.Expr{value},
	}
	if typ != nil {
		spec.Type = typ
	}
	return spec
}

// newMethod builds a method declaration with a single-identifier receiver.
func newMethod(recvName string, recvType ast.Expr, name string, results []*ast.Field, body ...ast.Stmt) *ast.FuncDecl {
	return &ast.FuncDecl{
		Recv: &ast.FieldList{List: []*ast.Field{
			{Names: []*ast.Ident{ast.NewIdent(recvName)}, Type: recvType},
		}},
		Name: ast.NewIdent(name),
		Type: &ast.FuncType{
			Params:  &ast.FieldList{},
			Results: &ast.FieldList{List: results},
		},
		Body: &ast.BlockStmt{List: body},
	}
}

func ptrTo(expr ast.Expr) ast.Expr {
	return &ast.StarExpr{X: expr}
}

func sliceOf(expr ast.Expr) ast.Expr {
	return &ast.ArrayType{Elt: expr}
}

func strLit(s string) ast.Expr {
	return &ast.BasicLit{Kind: token.STRING, Value: fmt.Sprintf("%q", s)}
}

func intLit(n int) ast.Expr {
	return &ast.BasicLit{Kind: token.INT, Value: fmt.Sprintf("%d", n)}
}

func selectorExpr(pkg, name string) ast.Expr {
	return &ast.SelectorExpr{X: ast.NewIdent(pkg), Sel: ast.NewIdent(name)}
}

func callExpr(fun ast.Expr, args ...ast.Expr) ast.Expr {
	return &ast.CallExpr{Fun: fun, Args: args}
}

func returnStmt(results ...ast.Expr) ast.Stmt {
	return &ast.ReturnStmt{Results: results}
}

// renderTag renders parsed attribute-injection entries as a struct tag
// literal. Type-level attributes come first so field-level ones read as the
// more specific refinement.
func renderTag(attrSets ...[]gencfg.Attr) string {
	var parts []string
	for _, attrs := range attrSets {
		for _, attr := range attrs {
			parts = append(parts, fmt.Sprintf("%s:%q", attr.Key, attr.Value))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	tag := "`"
	for i, p := range parts {
		if i > 0 {
			tag += " "
		}
		tag += p
	}
	return tag + "`"
}
