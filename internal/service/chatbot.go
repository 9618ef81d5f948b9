package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"eshop-assistant/internal/client"
)

// ChatbotService is the single text-in, text-out entry point. Every message
// lands in the session transcript, then runs through intent classification:
// order-status first, then admin, then customer, and finally the language
// model for anything unrecognized. Replies are appended to the transcript so
// the model sees alternating user/assistant turns.
type ChatbotService interface {
	Chat(ctx context.Context, sessionID, message string, ident Identity) (string, error)
	ClearHistory(ctx context.Context, sessionID string) error
}

type chatbotServiceImpl struct {
	admin    *AdminOps
	customer *CustomerOps
	catalog  CatalogService
	history  ConversationHistory
	oracle   client.AIClient
}

func NewChatbotService(admin *AdminOps, customer *CustomerOps, catalog CatalogService, history ConversationHistory, oracle client.AIClient) ChatbotService {
	return &chatbotServiceImpl{
		admin:    admin,
		customer: customer,
		catalog:  catalog,
		history:  history,
		oracle:   oracle,
	}
}

func (s *chatbotServiceImpl) Chat(ctx context.Context, sessionID, message string, ident Identity) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("empty message")
	}

	if err := s.history.Append(ctx, sessionID, message); err != nil {
		log.Printf("chat history: %v", err)
	}

	reply, handled, err := s.route(ctx, message, ident)
	if err != nil {
		return "", err
	}
	if !handled {
		reply, err = s.oracleReply(ctx, sessionID, message)
		if err != nil {
			return "", err
		}
	}

	if err := s.history.Append(ctx, sessionID, reply); err != nil {
		log.Printf("chat history: %v", err)
	}
	return reply, nil
}

// route mirrors the classification order: an order-status query short-circuits
// on missing login before any router runs, admin commands are handed to the
// admin router regardless of role (it produces the denial itself), and
// mutating customer commands are gated on login.
func (s *chatbotServiceImpl) route(ctx context.Context, message string, ident Identity) (string, bool, error) {
	switch ClassifyIntent(message) {
	case IntentOrderStatus:
		if !ident.Authenticated {
			return "❌ Please login to check your order status.", true, nil
		}
		reply, err := s.customer.Execute(ctx, message, ident)
		return reply, true, err

	case IntentAdmin:
		reply, err := s.admin.Execute(ctx, message, ident)
		return reply, true, err

	case IntentCustomer:
		if requiresAuthentication(message) && !ident.Authenticated {
			return "❌ Please login to place an order.", true, nil
		}
		reply, err := s.customer.Execute(ctx, message, ident)
		return reply, true, err
	}
	return "", false, nil
}

func (s *chatbotServiceImpl) oracleReply(ctx context.Context, sessionID, message string) (string, error) {
	// the transcript already contains the current message
	history, err := s.history.List(ctx, sessionID)
	if err != nil {
		log.Printf("chat history: %v", err)
		history = nil
	}
	if n := len(history); n > 0 && history[n-1] == message {
		history = history[:n-1]
	}

	prompt, err := s.systemPrompt(ctx)
	if err != nil {
		return "", err
	}
	reply, err := s.oracle.ChatResponse(ctx, prompt, message, history)
	if err != nil {
		return "", fmt.Errorf("assistant reply: %w", err)
	}
	return reply, nil
}

// systemPrompt grounds the model with live catalog data and the command
// formats the deterministic routers accept.
func (s *chatbotServiceImpl) systemPrompt(ctx context.Context) (string, error) {
	categories, err := s.catalog.Categories(ctx)
	if err != nil {
		return "", fmt.Errorf("load categories: %w", err)
	}
	products, err := s.catalog.Products(ctx)
	if err != nil {
		return "", fmt.Errorf("load products: %w", err)
	}

	var categoryNames []string
	for _, c := range categories {
		categoryNames = append(categoryNames, c.CategoryName)
	}
	var productLines []string
	for i, p := range products {
		if i == 10 {
			break
		}
		productLines = append(productLines, fmt.Sprintf("- %s: Rs%s (Stock: %d)", p.Name, p.Price.String(), p.StockQuantity))
	}

	var b strings.Builder
	b.WriteString("You are an AI assistant for an ecommerce store. You support both CUSTOMERS and ADMINS.\n\n")
	b.WriteString("## CUSTOMER OPERATIONS:\n")
	b.WriteString("1. Product search: \"Show me electronics\", \"Find laptops under Rs50000\"\n")
	b.WriteString("2. Order tracking: \"Check order 22\", \"Order status #22\" - REQUIRES LOGIN\n")
	b.WriteString("3. Shopping help: recommendations, comparisons\n")
	b.WriteString("4. General queries: shipping, returns, payments\n\n")
	b.WriteString("## ADMIN OPERATIONS (REQUIRES ADMIN LOGIN):\n")
	b.WriteString("- \"Add product [name] price [amount] stock [qty] category [name]\"\n")
	b.WriteString("- \"Update product [id] price [amount]\", \"Delete product [id]\"\n")
	b.WriteString("- \"Update order [id] status [status]\", \"Show pending orders\", \"Order statistics\"\n")
	b.WriteString("- \"Add category [name]\", \"Update category [id] name [new_name]\", \"List categories\"\n")
	b.WriteString("- \"Sales report\", \"User statistics\", \"Inventory report\"\n\n")
	fmt.Fprintf(&b, "## CURRENT DATA:\nCategories: %s\n\nSample products:\n%s\n\n",
		strings.Join(categoryNames, ", "), strings.Join(productLines, "\n"))
	b.WriteString("## SECURITY RULES:\n")
	b.WriteString("- Never provide order details without proper authentication\n")
	b.WriteString("- For order status queries, direct users to login first\n")
	b.WriteString("- Admin operations require admin authentication\n\n")
	b.WriteString("Store policies: COD/UPI payments, free shipping over Rs500, 30-day returns.")
	return b.String(), nil
}

func (s *chatbotServiceImpl) ClearHistory(ctx context.Context, sessionID string) error {
	return s.history.Clear(ctx, sessionID)
}
