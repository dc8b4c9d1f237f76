package pure1

// ResourceRef names another Pure1 resource from within a record.
type ResourceRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Array represents one FlashArray or FlashBlade appliance.
type Array struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OS      string `json:"os"`
	Model   string `json:"model"`
	Version string `json:"version"`
}

// Tag is one key/value annotation owned by an array.
type Tag struct {
	Key      string      `json:"key"`
	Value    string      `json:"value"`
	Resource ResourceRef `json:"resource"`
}

// NetworkInterface is one interface record. Arrays lists the owning
// appliances; the first entry identifies the owner.
type NetworkInterface struct {
	Name    string        `json:"name"`
	Address string        `json:"address"`
	Enabled bool          `json:"enabled"`
	Arrays  []ResourceRef `json:"arrays"`
}

// APIError is one error entry from a Pure1 response body.
type APIError struct {
	Message string `json:"message"`
	Context string `json:"context,omitempty"`
}

// ArraysResponse is the fully drained result of an arrays query.
// StatusCode 200 means Items is complete; any other value means the query
// failed and Errors describes why.
type ArraysResponse struct {
	StatusCode int
	Items      []Array
	Errors     []APIError
}

// TagsResponse is the fully drained result of an array-tags query.
type TagsResponse struct {
	StatusCode int
	Items      []Tag
	Errors     []APIError
}

// NetworkInterfacesResponse is the fully drained result of a
// network-interfaces query.
type NetworkInterfacesResponse struct {
	StatusCode int
	Items      []NetworkInterface
	Errors     []APIError
}
