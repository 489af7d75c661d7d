package server

type SendMessageRequest struct {
	Text    string `json:"text"`
	Image   string `json:"image"`
	GroupID string `json:"groupId"`
}

type MarkReadRequest struct {
	MessageIDs []string `json:"messageIds"`
}

type CreateGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type MemberRequest struct {
	MemberID string `json:"memberId"`
}

type messageResponse struct {
	Message string `json:"message"`
}
