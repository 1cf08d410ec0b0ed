package mcp

type (
	// ImplementationSchema describes the name and version of an MCP
	// implementation, either the client's or the server's.
	ImplementationSchema struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}

	// ClientCapabilitiesSchema represents capabilities a client may support.
	// The engine never inspects these, but records them in the session.
	ClientCapabilitiesSchema struct {
		Experimental map[string]any `json:"experimental,omitempty"`
		Sampling     map[string]any `json:"sampling,omitempty"`
	}

	// InitializeRequestParams is the params object of initialize.
	InitializeRequestParams struct {
		ProtocolVersion string                   `json:"protocolVersion"`
		Capabilities    ClientCapabilitiesSchema `json:"capabilities"`
		ClientInfo      ImplementationSchema     `json:"clientInfo"`
	}

	// ToolsCapabilitySchema, ResourcesCapabilitySchema and
	// PromptsCapabilitySchema are present on ServerCapabilitiesSchema only
	// when at least one item of that family is registered — never as a
	// bare boolean, always as an object. Tools advertises no optional
	// fields, so it serialises as a bare "{}".
	ToolsCapabilitySchema struct{}

	ResourcesCapabilitySchema struct {
		Subscribe   bool `json:"subscribe"`
		ListChanged bool `json:"listChanged"`
	}

	PromptsCapabilitySchema struct {
		ListChanged bool `json:"listChanged"`
	}

	// ServerCapabilitiesSchema reports which resource families are
	// populated. A nil pointer field is omitted from the wire object.
	ServerCapabilitiesSchema struct {
		Tools     *ToolsCapabilitySchema     `json:"tools,omitempty"`
		Resources *ResourcesCapabilitySchema `json:"resources,omitempty"`
		Prompts   *PromptsCapabilitySchema   `json:"prompts,omitempty"`
	}

	// InitializedResult is the result of initialize.
	InitializedResult struct {
		ProtocolVersion string                   `json:"protocolVersion"`
		Capabilities    ServerCapabilitiesSchema `json:"capabilities"`
		ServerInfo      ImplementationSchema     `json:"serverInfo"`
	}
)
