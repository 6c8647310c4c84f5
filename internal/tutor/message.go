package tutor

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// defaultImagePrompt is sent with an image that has no accompanying text.
const defaultImagePrompt = "Hãy mô tả và giải bài toán trong ảnh này."

// defaultImageMIME is assumed for data URLs without a media type.
const defaultImageMIME = "image/jpeg"

// Message is one turn of a conversation. Image, when set, is a data URL
// (data:image/png;base64,...). IsError marks a locally generated error
// message that is shown to the user but never sent back to the model.
type Message struct {
	ID      string
	Role    Role
	Text    string
	Image   string
	IsError bool
}

// NewMessage creates a message with a time-based ID.
func NewMessage(role Role, text string) Message {
	return Message{ID: strconv.FormatInt(time.Now().UnixNano(), 36), Role: role, Text: text}
}

// ImageDataURL encodes raw image bytes as a data URL, sniffing the media
// type from the content.
func ImageDataURL(data []byte) string {
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		mime = defaultImageMIME
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// BuildContents converts a conversation to Gemini contents. Error messages
// and messages with neither text nor image are dropped. An image that
// cannot be decoded is dropped and its text kept.
func BuildContents(history []Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		if msg.IsError || (strings.TrimSpace(msg.Text) == "" && msg.Image == "") {
			continue
		}

		if msg.Role == RoleUser && msg.Image != "" {
			text := msg.Text
			if strings.TrimSpace(text) == "" {
				text = defaultImagePrompt
			}
			content := &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: text}},
			}
			if blob, ok := decodeDataURL(msg.Image); ok {
				content.Parts = append(content.Parts, &genai.Part{InlineData: blob})
			}
			contents = append(contents, content)
			continue
		}

		role := genai.RoleModel
		if msg.Role == RoleUser {
			role = genai.RoleUser
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Text}},
		})
	}
	return contents
}

// decodeDataURL splits "data:<mime>;base64,<payload>". A bare base64 payload
// is accepted as JPEG.
func decodeDataURL(s string) (*genai.Blob, bool) {
	mime, payload := defaultImageMIME, s
	if header, data, ok := strings.Cut(s, ","); ok {
		payload = data
		header = strings.TrimPrefix(header, "data:")
		header = strings.TrimSuffix(header, ";base64")
		if header != "" {
			mime = header
		}
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return &genai.Blob{MIMEType: mime, Data: data}, true
}
