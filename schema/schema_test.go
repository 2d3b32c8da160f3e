package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

func testSet() *Set {
	return &Set{Files: []*descriptorpb.FileDescriptorProto{
		{
			Name:    proto.String("example.proto"),
			Package: proto.String("example"),
			MessageType: []*descriptorpb.DescriptorProto{
				{
					Name: proto.String("Data"),
					Field: []*descriptorpb.FieldDescriptorProto{
						{Name: proto.String("count"), Number: proto.Int32(1)},
						{Name: proto.String("payload"), Number: proto.Int32(2)},
					},
					NestedType: []*descriptorpb.DescriptorProto{
						{
							Name: proto.String("Inner"),
							Field: []*descriptorpb.FieldDescriptorProto{
								{Name: proto.String("value"), Number: proto.Int32(1)},
							},
						},
						{
							Name:    proto.String("TagsEntry"),
							Options: &descriptorpb.MessageOptions{MapEntry: proto.Bool(true)},
						},
					},
					EnumType: []*descriptorpb.EnumDescriptorProto{
						{
							Name: proto.String("Mode"),
							Value: []*descriptorpb.EnumValueDescriptorProto{
								{Name: proto.String("MODE_OFF"), Number: proto.Int32(0)},
								{Name: proto.String("MODE_ON"), Number: proto.Int32(1)},
							},
						},
					},
				},
			},
			EnumType: []*descriptorpb.EnumDescriptorProto{
				{
					Name: proto.String("Kind"),
					Value: []*descriptorpb.EnumValueDescriptorProto{
						{Name: proto.String("KIND_UNSPECIFIED"), Number: proto.Int32(0)},
					},
				},
			},
		},
	}}
}

func TestWalkOrder(t *testing.T) {
	want := []string{
		"example.Data",
		"example.Data.count",
		"example.Data.payload",
		"example.Data.Inner",
		"example.Data.Inner.value",
		"example.Data.Mode",
		"example.Data.Mode.MODE_OFF",
		"example.Data.Mode.MODE_ON",
		"example.Kind",
		"example.Kind.KIND_UNSPECIFIED",
	}
	if diff := cmp.Diff(want, testSet().ElementPaths()); diff != "" {
		t.Errorf("element paths mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkKinds(t *testing.T) {
	kinds := map[string]ElementKind{}
	testSet().Walk(func(el Element) {
		kinds[el.Path] = el.Kind
	})

	tests := []struct {
		path string
		kind ElementKind
	}{
		{"example.Data", KindMessage},
		{"example.Data.count", KindField},
		{"example.Data.Mode", KindEnum},
		{"example.Data.Mode.MODE_ON", KindEnumValue},
	}
	for _, tt := range tests {
		if kinds[tt.path] != tt.kind {
			t.Errorf("kind(%s) = %v, want %v", tt.path, kinds[tt.path], tt.kind)
		}
	}
	if _, ok := kinds["example.Data.TagsEntry"]; ok {
		t.Error("synthetic map entries must not be elements")
	}
}

func TestParseRoundTrip(t *testing.T) {
	fds := &descriptorpb.FileDescriptorSet{File: testSet().Files}
	data, err := proto.Marshal(fds)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	set, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(set.Files) != 1 || set.Files[0].GetPackage() != "example" {
		t.Errorf("unexpected set: %+v", set.Files)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte{0xff, 0xff, 0xff}); err == nil {
		t.Error("garbage input should not decode")
	}
}
