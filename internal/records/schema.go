package records

import (
	"fmt"
	"sync"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// The curated record file is a serialized MavenDependencyList:
//
//	enum PrimaryLinkType { PRIMARY_LINK_TYPE_UNSPECIFIED = 0; SCRAPE_DIRECTLY = 1;
//	                       SCRAPE_FROM_LOCAL_COPY = 2; SHOW_LINK_ONLY = 3; }
//	enum SecondaryLinkType { SECONDARY_LINK_TYPE_UNSPECIFIED = 0; SECONDARY_SCRAPE_DIRECTLY = 1;
//	                         SECONDARY_SCRAPE_FROM_LOCAL_COPY = 2; SECONDARY_SHOW_LINK_ONLY = 3; }
//	enum OriginOfLicenses { UNKNOWN = 0; LOCALLY_SPECIFIED = 1; SCRAPED = 2; }
//	message License { string license_name = 1; string primary_link = 2;
//	                  PrimaryLinkType primary_link_type = 3; string secondary_link = 4;
//	                  SecondaryLinkType secondary_link_type = 5; string secondary_license_name = 6; }
//	message MavenDependency { int32 index = 1; string artifact_name = 2; string artifact_version = 3;
//	                          repeated License license = 4; OriginOfLicenses origin_of_license = 5; }
//	message MavenDependencyList { repeated MavenDependency maven_dependency = 1; }
const protoPackage = "mavenlicenses"

type schema struct {
	list       protoreflect.MessageDescriptor
	dependency protoreflect.MessageDescriptor
	license    protoreflect.MessageDescriptor
}

var (
	schemaOnce sync.Once
	schemaDesc *schema
	schemaErr  error
)

func loadSchema() (*schema, error) {
	schemaOnce.Do(func() {
		fd, err := protodesc.NewFile(fileDescriptor(), new(protoregistry.Files))
		if err != nil {
			schemaErr = fmt.Errorf("failed to build record schema: %w", err)
			return
		}
		msgs := fd.Messages()
		schemaDesc = &schema{
			list:       msgs.ByName("MavenDependencyList"),
			dependency: msgs.ByName("MavenDependency"),
			license:    msgs.ByName("License"),
		}
	})
	return schemaDesc, schemaErr
}

func fileDescriptor() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("maven_dependencies.proto"),
		Package: proto.String(protoPackage),
		Syntax:  proto.String("proto3"),
		EnumType: []*descriptorpb.EnumDescriptorProto{
			enumType("PrimaryLinkType",
				"PRIMARY_LINK_TYPE_UNSPECIFIED", "SCRAPE_DIRECTLY", "SCRAPE_FROM_LOCAL_COPY", "SHOW_LINK_ONLY"),
			enumType("SecondaryLinkType",
				"SECONDARY_LINK_TYPE_UNSPECIFIED", "SECONDARY_SCRAPE_DIRECTLY", "SECONDARY_SCRAPE_FROM_LOCAL_COPY", "SECONDARY_SHOW_LINK_ONLY"),
			enumType("OriginOfLicenses",
				"UNKNOWN", "LOCALLY_SPECIFIED", "SCRAPED"),
		},
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("License"),
				Field: []*descriptorpb.FieldDescriptorProto{
					scalarField("license_name", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
					scalarField("primary_link", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
					namedField("primary_link_type", 3, descriptorpb.FieldDescriptorProto_TYPE_ENUM, "PrimaryLinkType", false),
					scalarField("secondary_link", 4, descriptorpb.FieldDescriptorProto_TYPE_STRING),
					namedField("secondary_link_type", 5, descriptorpb.FieldDescriptorProto_TYPE_ENUM, "SecondaryLinkType", false),
					scalarField("secondary_license_name", 6, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				},
			},
			{
				Name: proto.String("MavenDependency"),
				Field: []*descriptorpb.FieldDescriptorProto{
					scalarField("index", 1, descriptorpb.FieldDescriptorProto_TYPE_INT32),
					scalarField("artifact_name", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
					scalarField("artifact_version", 3, descriptorpb.FieldDescriptorProto_TYPE_STRING),
					namedField("license", 4, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, "License", true),
					namedField("origin_of_license", 5, descriptorpb.FieldDescriptorProto_TYPE_ENUM, "OriginOfLicenses", false),
				},
			},
			{
				Name: proto.String("MavenDependencyList"),
				Field: []*descriptorpb.FieldDescriptorProto{
					namedField("maven_dependency", 1, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, "MavenDependency", true),
				},
			},
		},
	}
}

func enumType(name string, values ...string) *descriptorpb.EnumDescriptorProto {
	e := &descriptorpb.EnumDescriptorProto{Name: proto.String(name)}
	for i, v := range values {
		e.Value = append(e.Value, &descriptorpb.EnumValueDescriptorProto{
			Name:   proto.String(v),
			Number: proto.Int32(int32(i)),
		})
	}
	return e
}

func scalarField(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   typ.Enum(),
	}
}

func namedField(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type, typeName string, repeated bool) *descriptorpb.FieldDescriptorProto {
	f := scalarField(name, number, typ)
	f.TypeName = proto.String("." + protoPackage + "." + typeName)
	if repeated {
		f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	}
	return f
}
