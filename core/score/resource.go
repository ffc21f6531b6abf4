package score

// ResourceType classifies an attached resource.
type ResourceType int

const (
	ResourceUndefined ResourceType = iota
	ResourceImage
	ResourceSound
	ResourceDocument
	ResourceOther
)

var resourceTypeNames = [...]string{"", "image", "sound", "document", "other"}

// ResourceTypeFromString parses the serialized resource type.
func ResourceTypeFromString(s string) ResourceType {
	for i, name := range resourceTypeNames {
		if i > 0 && s == name {
			return ResourceType(i)
		}
	}
	return ResourceUndefined
}

// String returns the serialized resource type.
func (t ResourceType) String() string {
	if t < 0 || int(t) >= len(resourceTypeNames) {
		return ""
	}
	return resourceTypeNames[t]
}

// Resource is a media file attached to a document, either linked (URL
// only) or embedded (content carried with the document). Embedded content
// is content-hashed on import.
type Resource struct {
	ID          string
	Name        string
	URL         string
	Linked      bool
	Type        ResourceType
	Description string

	Content []byte
	SHA256  string
	BLAKE3  string
}
