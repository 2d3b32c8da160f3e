package codegen

import (
	"fmt"
	"go/ast"
	"strings"

	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/tinypb/tinypb-go/gencfg"
)

// fieldType computes the Go type expression for a field, applying the
// resolved configuration: integer representation, container type overrides
// and boxing. Custom-field replacement is handled by the caller, before the
// descriptor type is consulted at all.
func (e *emitter) fieldType(field *descriptorpb.FieldDescriptorProto, cfg *gencfg.Config, scope *messageScope) (ast.Expr, error) {
	if entry, ok := scope.mapEntry(field); ok {
		return e.mapType(entry, cfg)
	}

	elem, err := e.scalarType(field, cfg)
	if err != nil {
		return nil, err
	}

	if field.GetLabel() == descriptorpb.FieldDescriptorProto_LABEL_REPEATED {
		vec, err := cfg.VecTypeRef()
		if err != nil {
			return nil, err
		}
		if vec != nil {
			// The override names a generic container; instantiate it
			// with the element type.
			return &ast.IndexExpr{X: vec, Index: elem}, nil
		}
		return sliceOf(elem), nil
	}

	if cfg.BoxedField() {
		return ptrTo(elem), nil
	}
	return elem, nil
}

// scalarType maps one descriptor type to Go, honoring the int_type and
// string_type overrides.
func (e *emitter) scalarType(field *descriptorpb.FieldDescriptorProto, cfg *gencfg.Config) (ast.Expr, error) {
	switch field.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		return ast.NewIdent("bool"), nil
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT:
		return ast.NewIdent("float32"), nil
	case descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		return ast.NewIdent("float64"), nil

	case descriptorpb.FieldDescriptorProto_TYPE_INT32,
		descriptorpb.FieldDescriptorProto_TYPE_SINT32,
		descriptorpb.FieldDescriptorProto_TYPE_SFIXED32:
		return e.intIdent(cfg, "int32"), nil
	case descriptorpb.FieldDescriptorProto_TYPE_INT64,
		descriptorpb.FieldDescriptorProto_TYPE_SINT64,
		descriptorpb.FieldDescriptorProto_TYPE_SFIXED64:
		return e.intIdent(cfg, "int64"), nil
	case descriptorpb.FieldDescriptorProto_TYPE_UINT32,
		descriptorpb.FieldDescriptorProto_TYPE_FIXED32:
		return e.intIdent(cfg, "uint32"), nil
	case descriptorpb.FieldDescriptorProto_TYPE_UINT64,
		descriptorpb.FieldDescriptorProto_TYPE_FIXED64:
		return e.intIdent(cfg, "uint64"), nil

	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		str, err := cfg.StringTypeRef()
		if err != nil {
			return nil, err
		}
		if str != nil {
			return str, nil
		}
		return ast.NewIdent("string"), nil

	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		return sliceOf(ast.NewIdent("byte")), nil

	case descriptorpb.FieldDescriptorProto_TYPE_ENUM,
		descriptorpb.FieldDescriptorProto_TYPE_MESSAGE,
		descriptorpb.FieldDescriptorProto_TYPE_GROUP:
		return ast.NewIdent(e.localTypeName(field.GetTypeName())), nil

	default:
		return nil, fmt.Errorf("field %s: unsupported descriptor type %v", field.GetName(), field.GetType())
	}
}

func (e *emitter) intIdent(cfg *gencfg.Config, dflt string) ast.Expr {
	if cfg.IntType != nil {
		return ast.NewIdent(cfg.IntType.TypeName())
	}
	return ast.NewIdent(dflt)
}

// mapType builds the type of a map field from its synthetic entry message.
func (e *emitter) mapType(entry *descriptorpb.DescriptorProto, cfg *gencfg.Config) (ast.Expr, error) {
	var keyField, valueField *descriptorpb.FieldDescriptorProto
	for _, f := range entry.GetField() {
		switch f.GetNumber() {
		case 1:
			keyField = f
		case 2:
			valueField = f
		}
	}
	if keyField == nil || valueField == nil {
		return nil, fmt.Errorf("map entry %s is missing key or value", entry.GetName())
	}

	// Overrides on the map field address the map itself, not its key or
	// value, so the components use a default bag.
	key, err := e.scalarType(keyField, gencfg.New())
	if err != nil {
		return nil, err
	}
	value, err := e.scalarType(valueField, gencfg.New())
	if err != nil {
		return nil, err
	}

	m, err := cfg.MapTypeRef()
	if err != nil {
		return nil, err
	}
	if m != nil {
		return &ast.IndexListExpr{X: m, Indices: []ast.Expr{key, value}}, nil
	}
	return &ast.MapType{Key: key, Value: value}, nil
}

// localTypeName converts a descriptor type name (".pkg.Outer.Inner") to the
// generated Go name (Outer_Inner), the same flattening protoc applies.
func (e *emitter) localTypeName(typeName string) string {
	name := strings.TrimPrefix(typeName, ".")
	if pkg := e.in.File.GetPackage(); pkg != "" {
		name = strings.TrimPrefix(name, pkg+".")
	}
	return strings.ReplaceAll(name, ".", "_")
}

// goName converts a proto field name (snake_case) to an exported Go name.
func goName(protoName string) string {
	var b strings.Builder
	upper := true
	for _, r := range protoName {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(toUpper(r))
			upper = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}
