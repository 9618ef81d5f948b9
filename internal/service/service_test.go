package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"eshop-assistant/internal/client"
	"eshop-assistant/internal/config"
	"eshop-assistant/internal/model"
	"eshop-assistant/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeOracle struct {
	reply   string
	lastMsg string
	history []string
}

func (f *fakeOracle) ChatResponse(ctx context.Context, systemPrompt, message string, history []string) (string, error) {
	f.lastMsg = message
	f.history = history
	if f.reply == "" {
		return "I can help with that.", nil
	}
	return f.reply, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeMailer) Send(toEmail, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, toEmail+": "+subject)
	return nil
}

// messages copies the sent log; notify runs off the request goroutine.
func (f *fakeMailer) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

type testEnv struct {
	db       *gorm.DB
	users    repository.UserRepository
	products repository.ProductRepository

	auth     AuthService
	catalog  CatalogService
	cart     CartService
	orders   OrderService
	admin    *AdminOps
	customer *CustomerOps
	chatbot  ChatbotService
	history  ConversationHistory
	oracle   *fakeOracle
	mailer   *fakeMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := client.InitDBClient(&config.Database{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	require.NoError(t, client.Migrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	mailer := &fakeMailer{}
	oracle := &fakeOracle{}

	env := &testEnv{
		db:       db,
		users:    userRepo,
		products: productRepo,
		mailer:   mailer,
		oracle:   oracle,
	}
	env.auth = NewAuthService(db, userRepo, &config.JWT{Secret: "test-secret", TTLHours: 1})
	env.catalog = NewCatalogService(db, productRepo, categoryRepo)
	env.cart = NewCartService(db, cartRepo, productRepo)
	env.orders = NewOrderService(db, orderRepo, paymentRepo, productRepo, cartRepo, userRepo, mailer)
	env.admin = NewAdminOps(env.catalog, env.orders, userRepo, paymentRepo)
	env.customer = NewCustomerOps(env.catalog, env.cart, env.orders)
	env.history = NewConversationHistory(rdb)
	env.chatbot = NewChatbotService(env.admin, env.customer, env.catalog, env.history, oracle)
	return env
}

func (e *testEnv) seedUser(t *testing.T, name, email string, role model.UserRole) Identity {
	t.Helper()
	user := &model.User{FullName: name, Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, e.users.Create(context.Background(), e.db, user))
	return Identity{Authenticated: true, UserID: user.UserID, Role: role, Email: email}
}

func (e *testEnv) seedCatalog(t *testing.T) *model.Product {
	t.Helper()
	ctx := context.Background()
	_, err := e.catalog.AddCategory(ctx, "Electronics")
	require.NoError(t, err)
	product, err := e.catalog.AddProduct(ctx, "iPhone", decimal.NewFromInt(75000), 50, "Electronics")
	require.NoError(t, err)
	return product
}

func mustProduct(t *testing.T, e *testEnv, id uint) *model.Product {
	t.Helper()
	product, err := e.products.FindByID(context.Background(), id)
	require.NoError(t, err)
	return product
}
