package model

// PathParamBinding is one editable path parameter of the active request. The set
// of keys is owned by params.Sync; Value and Enabled are edited by the user.
type PathParamBinding struct {
	ID      string `json:"id"`
	Key     string `json:"key"`
	Value   string `json:"value"`
	Enabled bool   `json:"enabled"`
}

// QueryParam is an editable query string entry.
type QueryParam struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Enabled bool   `json:"enabled"`
}
