package access

import "context"

// Resolver looks up the role attached to an identity. A nil identity means no session.
type Resolver interface {
	Resolve(ctx context.Context, identityID *string) (Resolution, error)
}

type Guard interface {
	Check(ctx context.Context, identityID *string, area Area) (Decision, error)
}

// CheckResponse is the decision as returned to the web client.
type CheckResponse struct {
	Allowed    bool    `json:"allowed"`
	Area       string  `json:"area"`
	Level      string  `json:"level"`
	RedirectTo *string `json:"redirect_to,omitempty"`
}

func NewCheckResponse(d Decision, routes Routes) CheckResponse {
	resp := CheckResponse{
		Allowed: d.Allowed,
		Area:    string(d.Area),
		Level:   d.Level.String(),
	}
	if !d.Allowed {
		path := routes.Path(d.Destination)
		resp.RedirectTo = &path
	}
	return resp
}
