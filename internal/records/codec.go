package records

import (
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/acheong08/mavenlicenses/pkg/models"
)

func (s *schema) toMessage(records []models.DependencyRecord) *dynamicpb.Message {
	list := dynamicpb.NewMessage(s.list)
	deps := list.Mutable(s.list.Fields().ByName("maven_dependency")).List()

	for _, rec := range records {
		v := deps.NewElement()
		s.fillDependency(v.Message(), rec)
		deps.Append(v)
	}
	return list
}

func (s *schema) fillDependency(m protoreflect.Message, rec models.DependencyRecord) {
	fields := s.dependency.Fields()
	setIfNonZero(m, fields.ByName("index"), protoreflect.ValueOfInt32(rec.Index), rec.Index != 0)
	setIfNonZero(m, fields.ByName("artifact_name"), protoreflect.ValueOfString(rec.ArtifactName), rec.ArtifactName != "")
	setIfNonZero(m, fields.ByName("artifact_version"), protoreflect.ValueOfString(rec.ArtifactVersion), rec.ArtifactVersion != "")
	setIfNonZero(m, fields.ByName("origin_of_license"), protoreflect.ValueOfEnum(protoreflect.EnumNumber(rec.Origin)), rec.Origin != 0)

	if len(rec.Licenses) == 0 {
		return
	}
	licenses := m.Mutable(fields.ByName("license")).List()
	for _, lic := range rec.Licenses {
		v := licenses.NewElement()
		s.fillLicense(v.Message(), lic)
		licenses.Append(v)
	}
}

func (s *schema) fillLicense(m protoreflect.Message, lic models.License) {
	fields := s.license.Fields()
	setIfNonZero(m, fields.ByName("license_name"), protoreflect.ValueOfString(lic.Name), lic.Name != "")
	setIfNonZero(m, fields.ByName("primary_link"), protoreflect.ValueOfString(lic.PrimaryLink), lic.PrimaryLink != "")
	setIfNonZero(m, fields.ByName("primary_link_type"), protoreflect.ValueOfEnum(protoreflect.EnumNumber(lic.PrimaryLinkType)), lic.PrimaryLinkType != 0)
	setIfNonZero(m, fields.ByName("secondary_link"), protoreflect.ValueOfString(lic.SecondaryLink), lic.SecondaryLink != "")
	setIfNonZero(m, fields.ByName("secondary_link_type"), protoreflect.ValueOfEnum(protoreflect.EnumNumber(lic.SecondaryLinkType)), lic.SecondaryLinkType != 0)
	setIfNonZero(m, fields.ByName("secondary_license_name"), protoreflect.ValueOfString(lic.SecondaryLicenseName), lic.SecondaryLicenseName != "")
}

// proto3 scalars are only "populated" when non-zero
func setIfNonZero(m protoreflect.Message, fd protoreflect.FieldDescriptor, v protoreflect.Value, nonZero bool) {
	if nonZero {
		m.Set(fd, v)
	}
}

func (s *schema) fromMessage(list protoreflect.Message) []models.DependencyRecord {
	deps := list.Get(s.list.Fields().ByName("maven_dependency")).List()
	fields := s.dependency.Fields()

	records := make([]models.DependencyRecord, 0, deps.Len())
	for i := 0; i < deps.Len(); i++ {
		m := deps.Get(i).Message()
		rec := models.DependencyRecord{
			Index:           int32(m.Get(fields.ByName("index")).Int()),
			ArtifactName:    m.Get(fields.ByName("artifact_name")).String(),
			ArtifactVersion: m.Get(fields.ByName("artifact_version")).String(),
			Origin:          models.OriginOfLicenses(m.Get(fields.ByName("origin_of_license")).Enum()),
		}

		licenses := m.Get(fields.ByName("license")).List()
		for j := 0; j < licenses.Len(); j++ {
			rec.Licenses = append(rec.Licenses, s.licenseFromMessage(licenses.Get(j).Message()))
		}
		records = append(records, rec)
	}
	return records
}

func (s *schema) licenseFromMessage(m protoreflect.Message) models.License {
	fields := s.license.Fields()
	return models.License{
		Name:                 m.Get(fields.ByName("license_name")).String(),
		PrimaryLink:          m.Get(fields.ByName("primary_link")).String(),
		PrimaryLinkType:      models.PrimaryLinkType(m.Get(fields.ByName("primary_link_type")).Enum()),
		SecondaryLink:        m.Get(fields.ByName("secondary_link")).String(),
		SecondaryLinkType:    models.SecondaryLinkType(m.Get(fields.ByName("secondary_link_type")).Enum()),
		SecondaryLicenseName: m.Get(fields.ByName("secondary_license_name")).String(),
	}
}
