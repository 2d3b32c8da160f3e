// Package schema is the boundary with the schema parser: it loads serialized
// protobuf descriptor sets and walks them, producing the dot-delimited
// element paths the configuration engine is addressed by. It does not
// validate schema semantics.
package schema

import (
	"fmt"

	"github.com/spf13/afero"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

// ElementKind classifies a schema element.
type ElementKind int

const (
	KindMessage ElementKind = iota
	KindField
	KindEnum
	KindEnumValue
)

func (k ElementKind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindField:
		return "field"
	case KindEnum:
		return "enum"
	case KindEnumValue:
		return "enum value"
	default:
		return "unknown"
	}
}

// Element is one addressable schema element: its full dot-delimited path
// from the package root, its kind and its declared name.
type Element struct {
	Path string
	Kind ElementKind
	Name string
}

// Set is a loaded descriptor set.
type Set struct {
	Files []*descriptorpb.FileDescriptorProto
}

// Load reads and decodes a serialized FileDescriptorSet (the output of
// `protoc --descriptor_set_out`).
func Load(fs afero.Fs, path string) (*Set, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor set: %w", err)
	}
	set, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Parse decodes a serialized FileDescriptorSet.
func Parse(data []byte) (*Set, error) {
	var fds descriptorpb.FileDescriptorSet
	if err := proto.Unmarshal(data, &fds); err != nil {
		return nil, fmt.Errorf("decoding descriptor set: %w", err)
	}
	return &Set{Files: fds.GetFile()}, nil
}

// Walk visits every element of the set in declaration order, root to leaf:
// each message before its fields, nested messages and nested enums, each
// enum before its values. Synthetic map-entry messages are not elements.
func (s *Set) Walk(fn func(Element)) {
	for _, file := range s.Files {
		pkg := file.GetPackage()
		for _, msg := range file.GetMessageType() {
			walkMessage(pkg, msg, fn)
		}
		for _, enum := range file.GetEnumType() {
			walkEnum(pkg, enum, fn)
		}
	}
}

// ElementPaths returns the paths of every element in declaration order.
func (s *Set) ElementPaths() []string {
	var paths []string
	s.Walk(func(el Element) {
		paths = append(paths, el.Path)
	})
	return paths
}

func walkMessage(prefix string, msg *descriptorpb.DescriptorProto, fn func(Element)) {
	path := joinPath(prefix, msg.GetName())
	fn(Element{Path: path, Kind: KindMessage, Name: msg.GetName()})
	for _, field := range msg.GetField() {
		fn(Element{Path: joinPath(path, field.GetName()), Kind: KindField, Name: field.GetName()})
	}
	for _, nested := range msg.GetNestedType() {
		if nested.GetOptions().GetMapEntry() {
			continue
		}
		walkMessage(path, nested, fn)
	}
	for _, enum := range msg.GetEnumType() {
		walkEnum(path, enum, fn)
	}
}

func walkEnum(prefix string, enum *descriptorpb.EnumDescriptorProto, fn func(Element)) {
	path := joinPath(prefix, enum.GetName())
	fn(Element{Path: path, Kind: KindEnum, Name: enum.GetName()})
	for _, value := range enum.GetValue() {
		fn(Element{Path: joinPath(path, value.GetName()), Kind: KindEnumValue, Name: value.GetName()})
	}
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
