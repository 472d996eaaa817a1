package agent

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// DemoBackend answers offline with canned responses. It still issues session
// ids so the chat flow behaves exactly as with a real backend.
type DemoBackend struct{}

func NewDemoBackend() *DemoBackend {
	return &DemoBackend{}
}

var demoReplies = []struct {
	keywords []string
	agent    string
	reply    string
}{
	{
		keywords: []string{"invest", "stock", "mutual fund", "portfolio"},
		agent:    "investment_advisor",
		reply:    "For long-term goals, a diversified portfolio of low-cost index funds is a sensible starting point. I can run projections if you share an amount and horizon.",
	},
	{
		keywords: []string{"insurance", "claim", "cover"},
		agent:    "insurance_advisor",
		reply:    "A term life cover of 10-15x annual income plus a separate health policy is the usual baseline. Want me to look at your current cover?",
	},
	{
		keywords: []string{"tax", "deduction"},
		agent:    "tax_consultant",
		reply:    "Tax planning depends on your income structure. Salaried income, investments, and insurance premiums each open different deductions.",
	},
	{
		keywords: []string{"loan", "emi", "mortgage"},
		agent:    "loan_advisor",
		reply:    "Paying even a small fixed extra amount toward principal every month shortens a loan substantially. I can compute the exact savings for your numbers.",
	},
}

const demoDefaultReply = "I can help with investments, insurance, taxes, and loans. What would you like to look at?"

func (d *DemoBackend) SendMessage(_ context.Context, req SendRequest) (SendResponse, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	msg := req.Message
	transcription := ""
	if len(req.Audio) > 0 && msg == "" {
		// No transcription engine offline; echo a placeholder.
		msg = "voice message"
		transcription = msg
	}

	lower := strings.ToLower(msg)
	reply := demoDefaultReply
	agentID := "demo"
	for _, r := range demoReplies {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				reply = r.reply
				agentID = r.agent
				break
			}
		}
		if agentID != "demo" {
			break
		}
	}

	return SendResponse{
		ResponseText:  reply,
		SessionID:     sessionID,
		AgentID:       agentID,
		Transcription: transcription,
	}, nil
}

func (d *DemoBackend) SystemStatus(_ context.Context) (SystemStatus, error) {
	agents := []AgentStatus{
		{ID: "investment_advisor", Name: "Investment Advisor", Status: "idle"},
		{ID: "insurance_advisor", Name: "Insurance Advisor", Status: "idle"},
		{ID: "tax_consultant", Name: "Tax Consultant", Status: "idle"},
		{ID: "loan_advisor", Name: "Loan Advisor", Status: "idle"},
	}
	tools := []ToolStatus{
		{ID: "financial_calculator", Name: "Financial Calculator", Available: true},
	}
	return SystemStatus{
		Agents:          agents,
		Tools:           tools,
		TotalAgents:     len(agents),
		AvailableAgents: len(agents),
		Healthy:         true,
	}, nil
}
