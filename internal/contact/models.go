package contact

// Subject is used for every forwarded submission.
const Subject = "New Contact Form Submission"

// Submission is one contact-form post.
type Submission struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=5000"`
}

// Mail is a plain-text message handed to a Mailer.
type Mail struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	Body    string
}
