package notification

const DefaultTemplateName = "random_coffee"

// TemplateVariables lists the placeholders every match email can use.
var TemplateVariables = []string{
	"user_name",
	"match_name",
	"match_first_name",
	"match_segment",
	"match_affiliation",
	"match_about",
	"match_email",
	"match_telegram",
	"starter_questions",
	"starter_questions_text",
}

var DefaultTemplate = Template{
	Name:     DefaultTemplateName,
	Subject:  "☕ Your Random Coffee Match This Week",
	HTMLBody: defaultHTML,
	TextBody: defaultText,
}

const defaultText = `Hello {{user_name}}!

☕ Your Random Coffee Match for This Week

You've been matched with:
👤 {{match_name}}
🎓 {{match_segment}}
🏫 {{match_affiliation}}

Contact:
📧 {{match_email}}
💬 {{match_telegram}}

About them:
{{match_about}}

Starter Questions:
{{starter_questions_text}}

Reach out and schedule your coffee chat!

Best regards,
The Random Coffee Team
`

const defaultHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; border-radius: 10px 10px 0 0; text-align: center; }
        .content { background: #f8f9fa; padding: 30px; border-radius: 0 0 10px 10px; }
        .match-card { background: white; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #667eea; }
        .label { font-weight: 600; color: #495057; }
        .contact { background: #e3f2fd; padding: 15px; border-radius: 6px; margin: 15px 0; }
        .questions { background: #fff3cd; padding: 15px; border-radius: 6px; margin: 15px 0; }
        .footer { text-align: center; margin-top: 30px; color: #6c757d; font-size: 14px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>☕ Random Coffee Match</h1>
        <p>Your weekly networking opportunity</p>
    </div>
    <div class="content">
        <p>Hello <strong>{{user_name}}</strong>!</p>
        <p>You've been matched with a new person for this week's Random Coffee.</p>
        <div class="match-card">
            <h2>👤 Your Match</h2>
            <p><span class="label">Name:</span> {{match_name}}</p>
            <p><span class="label">🎓 Segment:</span> {{match_segment}}</p>
            <p><span class="label">🏫 Affiliation:</span> {{match_affiliation}}</p>
            <p><span class="label">📝 About:</span><br>{{match_about}}</p>
        </div>
        <div class="contact">
            <h3>📲 Contact Information</h3>
            <p><strong>📧 Email:</strong> {{match_email}}</p>
            <p><strong>💬 Telegram:</strong> {{match_telegram}}</p>
        </div>
        <div class="questions">
            <h3>💬 Starter Questions</h3>
            {{starter_questions}}
        </div>
        <p style="text-align: center;"><strong>Next Step:</strong> Reach out to {{match_first_name}} and schedule your coffee chat! ☕</p>
    </div>
    <div class="footer">
        <p>You're receiving this because you're subscribed to Random Coffee.</p>
    </div>
</body>
</html>
`
