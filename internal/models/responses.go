package models

// AuthResponse is returned by all four login/registration endpoints.
type AuthResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"accessToken"`
}

// RoomDetail is the payload of the today/by-id room endpoints: the room plus
// its full message history.
type RoomDetail struct {
	ChatRoom      ChatRoom  `json:"chatRoom"`
	Messages      []Message `json:"messages"`
	TotalMessages int       `json:"totalMessages"`
}

// RoomList wraps the month-listing response.
type RoomList struct {
	ChatRooms []ChatRoom `json:"chatRooms"`
}

// SendMessageResult carries the server's canonical echo of the sent user
// message together with the bot's reply.
type SendMessageResult struct {
	UserMessage Message `json:"userMessage"`
	BotMessage  Message `json:"botMessage"`
}

// BotSettingsResult acknowledges a persona update.
type BotSettingsResult struct {
	BotSettings BotSettings `json:"botSettings"`
	Message     string      `json:"message"`
}

// ImageGeneration is the result of the generate-image endpoint.
type ImageGeneration struct {
	Success   bool   `json:"success"`
	ImageURL  string `json:"imageUrl,omitempty"`
	Message   string `json:"message"`
	IsPremium bool   `json:"isPremium"`
}
