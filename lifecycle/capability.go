package lifecycle

import "healthlink-backend/models"

// Viewer is the identity the resolver works with: who is looking, and as
// what role. A zero Viewer means anonymous and resolves to the least
// privileged path everywhere.
type Viewer struct {
	ID   uint
	Role string
}

// Capability names a single thing a role may do. Role checks go through the
// table below instead of comparing role strings at each call site.
type Capability string

const (
	CapManageCampaigns     Capability = "campaigns.manage"
	CapRemoveCampaigns     Capability = "campaigns.remove"
	CapRegisterCampaigns   Capability = "campaigns.register"
	CapRespondConsultation Capability = "consultations.respond"
	CapReviewReports       Capability = "reports.review"
	CapManageUsers         Capability = "users.manage"
)

var roleCapabilities = map[string][]Capability{
	models.RoleAdmin: {
		CapManageCampaigns, CapRemoveCampaigns,
		CapRespondConsultation, CapReviewReports, CapManageUsers,
	},
	models.RoleNGO: {
		CapManageCampaigns, CapRemoveCampaigns, CapReviewReports,
	},
	models.RoleHealthWorker: {
		CapManageCampaigns, CapRespondConsultation, CapReviewReports,
	},
	models.RoleDoctor: {
		CapRespondConsultation, CapReviewReports,
	},
	models.RolePatient: {
		CapRegisterCampaigns,
	},
	// RoleUser deliberately maps to nothing.
}

// Can reports whether the viewer's role grants the capability. Unknown or
// empty roles grant nothing.
func Can(v Viewer, cap Capability) bool {
	for _, c := range roleCapabilities[v.Role] {
		if c == cap {
			return true
		}
	}
	return false
}
