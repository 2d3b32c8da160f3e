// Package codegen is the emission stage: it turns descriptors plus resolved
// configuration into Go source. For every element it resolves the effective
// configuration once, checks the skip flag first, and only then queries the
// typed fragments it needs.
package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/printer"
	"go/token"
	"path"
	"sort"
	"strings"

	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/tinypb/tinypb-go/diagnostics"
	"github.com/tinypb/tinypb-go/gencfg"
)

// Mode selects which generated helpers a message carries. Wire-format
// encoding itself is not generated here; the mode only gates the helper
// surface each side of a codec needs.
type Mode int

const (
	// ModeBoth generates the encode- and decode-side helpers.
	ModeBoth Mode = iota
	// ModeEncodeOnly omits decode-side helpers (Reset).
	ModeEncodeOnly
	// ModeDecodeOnly omits encode-side helpers (the size cache).
	ModeDecodeOnly
)

// FileInput carries everything needed to emit one descriptor file.
type FileInput struct {
	Package         string
	File            *descriptorpb.FileDescriptorProto
	Resolve         func(path string) *gencfg.Config
	Imports         map[string]string // package qualifier -> import path, for type overrides
	Mode            Mode
	SizeCache       bool
	StripEnumPrefix bool
	Format          bool
}

// EmitFile renders the Go source for one descriptor file. Malformed
// overrides are pushed onto diags and the affected field or method is
// omitted, so one pass reports every bad override; descriptor-level
// problems are returned as hard errors.
func EmitFile(in FileInput, diags *diagnostics.Diagnostics) ([]byte, error) {
	e := &emitter{in: in, diags: diags}
	file := newFile(in.Package)

	pkg := in.File.GetPackage()
	for _, msg := range in.File.GetMessageType() {
		if err := e.emitMessage(file, pkg, "", msg); err != nil {
			return nil, err
		}
	}
	for _, enum := range in.File.GetEnumType() {
		e.emitEnum(file, pkg, "", enum)
	}

	imports, err := e.importSpecs()
	if err != nil {
		return nil, err
	}
	addImports(file, imports)

	var buf bytes.Buffer
	fset := token.NewFileSet()
	if in.Format {
		if err := format.Node(&buf, fset, file); err != nil {
			return nil, fmt.Errorf("formatting output: %w", err)
		}
	} else {
		if err := printer.Fprint(&buf, fset, file); err != nil {
			return nil, fmt.Errorf("rendering output: %w", err)
		}
	}
	return buf.Bytes(), nil
}

type emitter struct {
	in       FileInput
	diags    *diagnostics.Diagnostics
	needsFmt bool
	usedPkgs map[string]bool // package qualifiers referenced by emitted types
}

// recordImports notes every package qualifier a type expression references,
// so the matching imports can be emitted. Override type references are the
// only place foreign packages enter the output.
func (e *emitter) recordImports(expr ast.Expr) {
	ast.Inspect(expr, func(n ast.Node) bool {
		if sel, ok := n.(*ast.SelectorExpr); ok {
			if id, ok := sel.X.(*ast.Ident); ok {
				if e.usedPkgs == nil {
					e.usedPkgs = make(map[string]bool)
				}
				e.usedPkgs[id.Name] = true
			}
		}
		return true
	})
}

// importSpecs maps the referenced qualifiers to import paths. A qualifier
// with no configured path would leave the output uncompilable, so it is a
// hard error rather than a silently broken file.
func (e *emitter) importSpecs() ([]importEntry, error) {
	var imports []importEntry
	if e.needsFmt {
		imports = append(imports, importEntry{Path: "fmt"})
	}
	qualifiers := make([]string, 0, len(e.usedPkgs))
	for q := range e.usedPkgs {
		qualifiers = append(qualifiers, q)
	}
	sort.Strings(qualifiers)
	for _, q := range qualifiers {
		importPath, ok := e.in.Imports[q]
		if !ok {
			return nil, fmt.Errorf(
				"generated code references package %q but no import path is mapped for it", q)
		}
		entry := importEntry{Path: importPath}
		if path.Base(importPath) != q {
			entry.Name = q
		}
		imports = append(imports, entry)
	}
	return imports, nil
}

// pushConfigErr collects a configuration error and reports whether err was
// one. Anything else is a descriptor or generator bug and propagates.
func (e *emitter) pushConfigErr(err error) bool {
	var ce diagnostics.ConfigError
	if errors.As(err, &ce) {
		e.diags.PushError(ce)
		return true
	}
	return false
}

// messageScope tracks the synthetic map-entry messages of one message.
type messageScope struct {
	entries map[string]*descriptorpb.DescriptorProto
}

func newMessageScope(msg *descriptorpb.DescriptorProto) *messageScope {
	scope := &messageScope{entries: make(map[string]*descriptorpb.DescriptorProto)}
	for _, nested := range msg.GetNestedType() {
		if nested.GetOptions().GetMapEntry() {
			scope.entries[nested.GetName()] = nested
		}
	}
	return scope
}

func (s *messageScope) mapEntry(field *descriptorpb.FieldDescriptorProto) (*descriptorpb.DescriptorProto, bool) {
	if field.GetType() != descriptorpb.FieldDescriptorProto_TYPE_MESSAGE {
		return nil, false
	}
	name := field.GetTypeName()
	entry, ok := s.entries[name[strings.LastIndex(name, ".")+1:]]
	return entry, ok
}

func (e *emitter) emitMessage(file *ast.File, pathPrefix, goPrefix string, msg *descriptorpb.DescriptorProto) error {
	path := joinPath(pathPrefix, msg.GetName())
	cfg := e.in.Resolve(path)
	if cfg.Skipped() {
		return nil
	}

	typeName := goPrefix + msg.GetName()
	scope := newMessageScope(msg)

	typeAttrs, err := cfg.TypeAttrs()
	if err != nil && !e.pushConfigErr(err) {
		return err
	}

	var (
		structFields []*ast.Field
		constDecls   []ast.Decl
		presence     []string // resolved Go names of presence-tracked fields
	)

	for _, field := range msg.GetField() {
		fieldPath := joinPath(path, field.GetName())
		fcfg := e.in.Resolve(fieldPath)
		if fcfg.Skipped() {
			continue
		}

		name, err := fcfg.FieldName(goName(field.GetName()))
		if err != nil {
			if !e.pushConfigErr(err) {
				return err
			}
			continue
		}

		var typeExpr ast.Expr
		if fcfg.HasCustomField() {
			parsed, err := fcfg.CustomFieldParsed()
			if err != nil {
				if !e.pushConfigErr(err) {
					return err
				}
				continue
			}
			if parsed.Kind == gencfg.CustomFieldDelegate {
				// The field lives in user code, reached through the
				// delegate accessor; nothing is generated for it.
				continue
			}
			typeExpr = parsed.Type
			if fcfg.BoxedField() {
				typeExpr = ptrTo(typeExpr)
			}
		} else {
			typeExpr, err = e.fieldType(field, fcfg, scope)
			if err != nil {
				if !e.pushConfigErr(err) {
					return err
				}
				continue
			}
			if hasPresence(e.in.File, field) {
				presence = append(presence, name)
			}
		}

		fieldAttrs, err := fcfg.FieldAttrs()
		if err != nil && !e.pushConfigErr(err) {
			return err
		}
		e.recordImports(typeExpr)
		structFields = append(structFields, newField(name, typeExpr, renderTag(typeAttrs, fieldAttrs)))

		if fcfg.MaxLen != nil {
			constDecls = append(constDecls, &ast.GenDecl{Tok: token.CONST, Specs: []ast.Spec{
				newConstSpec(typeName+name+"MaxLen", nil, intLit(int(*fcfg.MaxLen))),
			}})
		}
		if fcfg.MaxBytes != nil {
			constDecls = append(constDecls, &ast.GenDecl{Tok: token.CONST, Specs: []ast.Spec{
				newConstSpec(typeName+name+"MaxBytes", nil, intLit(int(*fcfg.MaxBytes))),
			}})
		}
	}

	hazzer := len(presence) > 0 && !cfg.HazzerDisabled()
	if hazzer {
		structFields = append(structFields, newField("Has", ast.NewIdent(typeName+"Hazzer"), ""))
	}
	if e.in.SizeCache && e.in.Mode != ModeDecodeOnly {
		structFields = append(structFields, &ast.Field{
			Names: []*ast.Ident{ast.NewIdent("cachedSize")},
			Type:  ast.NewIdent("int"),
		})
	}

	file.Decls = append(file.Decls, newTypeDecl(typeName, newStructType(structFields)))
	file.Decls = append(file.Decls, constDecls...)

	recv := ptrTo(ast.NewIdent(typeName))
	if e.in.Mode != ModeEncodeOnly {
		file.Decls = append(file.Decls, newMethod("m", recv, "Reset", nil,
			&ast.AssignStmt{
				Lhs: []ast.Expr{&ast.StarExpr{X: ast.NewIdent("m")}},
				Tok: token.ASSIGN,
				Rhs: []ast.Expr{&ast.CompositeLit{Type: ast.NewIdent(typeName)}},
			},
		))
	}
	if e.in.SizeCache && e.in.Mode != ModeDecodeOnly {
		file.Decls = append(file.Decls, newMethod("m", recv, "CachedSize",
			[]*ast.Field{{Type: ast.NewIdent("int")}},
			returnStmt(selectorExpr("m", "cachedSize")),
		))
	}
	if !cfg.DebugStringDisabled() {
		e.needsFmt = true
		file.Decls = append(file.Decls, newMethod("m", recv, "String",
			[]*ast.Field{{Type: ast.NewIdent("string")}},
			returnStmt(callExpr(selectorExpr("fmt", "Sprintf"),
				strLit("%+v"), &ast.StarExpr{X: ast.NewIdent("m")})),
		))
	}

	if hazzer {
		if err := e.emitHazzer(file, typeName, presence, cfg); err != nil {
			return err
		}
	}

	for _, nested := range msg.GetNestedType() {
		if nested.GetOptions().GetMapEntry() {
			continue
		}
		if err := e.emitMessage(file, path, typeName+"_", nested); err != nil {
			return err
		}
	}
	for _, enum := range msg.GetEnumType() {
		e.emitEnum(file, path, typeName+"_", enum)
	}
	return nil
}

// emitHazzer generates the presence-tracking struct: one bit per tracked
// field, with a getter, setter and clearer named after the field. Bits are
// spread over as many uint64 words as the field count needs, so messages
// with more than 64 tracked fields stay compilable.
func (e *emitter) emitHazzer(file *ast.File, typeName string, presence []string, cfg *gencfg.Config) error {
	hazzerAttrs, err := cfg.HazzerAttrs()
	if err != nil && !e.pushConfigErr(err) {
		return err
	}

	words := (len(presence) + 63) / 64
	bitsType := &ast.ArrayType{Len: intLit(words), Elt: ast.NewIdent("uint64")}
	hazzerName := typeName + "Hazzer"
	file.Decls = append(file.Decls, newTypeDecl(hazzerName, newStructType([]*ast.Field{
		newField("bits", bitsType, renderTag(hazzerAttrs)),
	})))

	recv := ptrTo(ast.NewIdent(hazzerName))
	for i, name := range presence {
		word, bit := i/64, i%64
		get, err := parser.ParseExpr(fmt.Sprintf("h.bits[%d]&(1<<%d) != 0", word, bit))
		if err != nil {
			return fmt.Errorf("building hazzer accessor: %w", err)
		}
		lhs, err := parser.ParseExpr(fmt.Sprintf("h.bits[%d]", word))
		if err != nil {
			return fmt.Errorf("building hazzer accessor: %w", err)
		}
		mask, err := parser.ParseExpr(fmt.Sprintf("1 << %d", bit))
		if err != nil {
			return fmt.Errorf("building hazzer accessor: %w", err)
		}
		file.Decls = append(file.Decls,
			newMethod("h", recv, name,
				[]*ast.Field{{Type: ast.NewIdent("bool")}},
				returnStmt(get)),
			newMethod("h", recv, "Set"+name, nil,
				&ast.AssignStmt{
					Lhs: []ast.Expr{lhs},
					Tok: token.OR_ASSIGN,
					Rhs: []ast.Expr{mask},
				}),
			newMethod("h", recv, "Clear"+name, nil,
				&ast.AssignStmt{
					Lhs: []ast.Expr{lhs},
					Tok: token.AND_NOT_ASSIGN,
					Rhs: []ast.Expr{mask},
				}),
		)
	}
	return nil
}

func (e *emitter) emitEnum(file *ast.File, pathPrefix, goPrefix string, enum *descriptorpb.EnumDescriptorProto) {
	path := joinPath(pathPrefix, enum.GetName())
	cfg := e.in.Resolve(path)
	if cfg.Skipped() {
		return
	}

	typeName := goPrefix + enum.GetName()
	underlying := "int32"
	if cfg.EnumIntType != nil {
		underlying = cfg.EnumIntType.TypeName()
	}
	file.Decls = append(file.Decls, newTypeDecl(typeName, ast.NewIdent(underlying)))

	prefix := upperSnake(enum.GetName()) + "_"
	var (
		specs []ast.Spec
		named []struct{ constName, protoName string }
	)
	for _, value := range enum.GetValue() {
		vcfg := e.in.Resolve(joinPath(path, value.GetName()))
		if vcfg.Skipped() {
			continue
		}
		valueName := value.GetName()
		if e.in.StripEnumPrefix {
			if stripped := strings.TrimPrefix(valueName, prefix); stripped != valueName && stripped != "" {
				valueName = stripped
			}
		}
		constName := typeName + "_" + valueName
		specs = append(specs, newConstSpec(constName, ast.NewIdent(typeName), intLit(int(value.GetNumber()))))
		named = append(named, struct{ constName, protoName string }{constName, value.GetName()})
	}
	if len(specs) > 0 {
		file.Decls = append(file.Decls, newConstDecl(specs))
	}

	if cfg.DebugStringDisabled() {
		return
	}
	e.needsFmt = true
	var cases []ast.Stmt
	for _, v := range named {
		cases = append(cases, &ast.CaseClause{
			List: []ast.Expr{ast.NewIdent(v.constName)},
			Body: []ast.Stmt{returnStmt(strLit(v.protoName))},
		})
	}
	cases = append(cases, &ast.CaseClause{ // default
		Body: []ast.Stmt{returnStmt(callExpr(selectorExpr("fmt", "Sprintf"),
			strLit(typeName+"(%d)"), callExpr(ast.NewIdent("int64"), ast.NewIdent("x"))))},
	})
	file.Decls = append(file.Decls, newMethod("x", ast.NewIdent(typeName), "String",
		[]*ast.Field{{Type: ast.NewIdent("string")}},
		&ast.SwitchStmt{
			Tag:  ast.NewIdent("x"),
			Body: &ast.BlockStmt{List: cases},
		},
	))
}

// hasPresence reports whether the field carries explicit presence that the
// hazzer should track. Message-typed fields track presence through their
// own value and are excluded.
func hasPresence(file *descriptorpb.FileDescriptorProto, field *descriptorpb.FieldDescriptorProto) bool {
	if field.GetType() == descriptorpb.FieldDescriptorProto_TYPE_MESSAGE ||
		field.GetType() == descriptorpb.FieldDescriptorProto_TYPE_GROUP {
		return false
	}
	if field.GetLabel() == descriptorpb.FieldDescriptorProto_LABEL_REPEATED {
		return false
	}
	if field.GetProto3Optional() {
		return true
	}
	// proto2: optional scalar fields always have presence.
	return file.GetSyntax() != "proto3" &&
		field.GetLabel() == descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func upperSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' && i > 0 {
			prev := name[i-1]
			if prev >= 'a' && prev <= 'z' || prev >= '0' && prev <= '9' {
				b.WriteByte('_')
			}
		}
		b.WriteRune(toUpper(r))
	}
	return b.String()
}
