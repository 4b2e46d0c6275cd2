package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"hotel/internal/domain"
	"hotel/internal/models"
	"hotel/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var errInputClosed = errors.New("input closed")

// Exporter writes the ledger to a file and returns its path.
type Exporter interface {
	ExportBookings(ctx context.Context, r *models.DateRange) (string, error)
}

// Deps are the services the menus act on. Exporter may be nil.
type Deps struct {
	Users    domain.UserService
	Rooms    domain.RoomService
	Catalog  domain.CatalogService
	Bookings domain.BookingService
	Exporter Exporter
	Currency string
}

// Console is the text interaction layer: role-gated menus over a line reader.
type Console struct {
	deps   Deps
	in     *bufio.Scanner
	out    io.Writer
	logger *zerolog.Logger
	sess   *models.Session
}

func New(deps Deps, in io.Reader, out io.Writer, logger *zerolog.Logger) *Console {
	if deps.Currency == "" {
		deps.Currency = models.DefaultCurrency
	}
	return &Console{
		deps:   deps,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger,
	}
}

type action struct {
	title string
	run   func(ctx context.Context) error
}

// Run serves menus until exit, end of input or context cancellation.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			c.logout(context.Background())
			return err
		}

		c.refreshSession(ctx)

		var (
			title   string
			actions []action
		)
		if c.sess == nil {
			title, actions = "Hotel Management System", c.mainMenu()
		} else {
			title, actions = c.roleMenu()
		}

		c.printMenu(title, actions)
		line, err := c.prompt("Select action: ")
		if err != nil {
			c.logout(context.Background())
			return nil
		}

		choice, err := strconv.Atoi(line)
		if err != nil {
			c.println("Invalid input. Please enter a number.")
			continue
		}

		if choice == 0 {
			if c.sess == nil {
				c.println("Goodbye!")
				return nil
			}
			c.logout(ctx)
			c.println("Logged out.")
			continue
		}
		if choice < 1 || choice > len(actions) {
			c.println("Invalid choice.")
			continue
		}

		if err := actions[choice-1].run(ctx); err != nil {
			if errors.Is(err, errInputClosed) {
				c.logout(context.Background())
				return nil
			}
			c.report(err)
		}
	}
}

func (c *Console) mainMenu() []action {
	return []action{
		{"Login", c.login},
		{"Register", c.register},
	}
}

func (c *Console) roleMenu() (string, []action) {
	switch c.sess.User.Role {
	case models.RoleAdmin:
		return "Admin Menu", []action{
			{"View All Bookings", c.viewAllBookings},
			{"Manage Booking Status", c.manageBookingStatus},
			{"Add Service to Booking", c.addServiceToBooking},
			{"Calculate Bill", c.calculateBill},
			{"Manage User Roles", c.manageUserRoles},
			{"Register New User", c.registerByAdmin},
			{"View All Rooms", c.viewAllRooms},
			{"Add New Room", c.addRoom},
			{"View All Services", c.viewAllServices},
			{"Add New Service", c.addService},
			{"Remove Service from Booking", c.removeServiceFromBooking},
			{"Export Bookings to Excel", c.exportBookings},
		}
	case models.RoleManager:
		return "Manager Menu", []action{
			{"View All Bookings", c.viewAllBookings},
			{"Manage Booking Status", c.manageBookingStatus},
			{"Calculate Bill", c.calculateBill},
			{"View All Rooms", c.viewAllRooms},
			{"Add New Room", c.addRoom},
			{"View All Services", c.viewAllServices},
			{"Add New Service", c.addService},
			{"Export Bookings to Excel", c.exportBookings},
		}
	default:
		return "User Menu", []action{
			{"View Available Rooms", c.viewAvailableRooms},
			{"Make a Booking", c.makeBooking},
			{"View My Bookings", c.viewMyBookings},
		}
	}
}

func (c *Console) printMenu(title string, actions []action) {
	header := fmt.Sprintf("===== %s =====", title)
	c.println("\n" + header)
	for i, a := range actions {
		c.printf("%d. %s\n", i+1, a.title)
	}
	if c.sess == nil {
		c.println("0. Exit")
	} else {
		c.println("0. Logout")
	}
	c.println(strings.Repeat("=", len(header)))
}

// refreshSession re-reads the session from the store so expiry, revocation
// and role changes apply to the next menu.
func (c *Console) refreshSession(ctx context.Context) {
	if c.sess == nil {
		return
	}
	sess, err := c.deps.Users.Session(ctx, c.sess.ID)
	if err != nil {
		if !errors.Is(err, service.ErrUnauthenticated) {
			c.report(err)
		}
		c.sess = nil
		c.println("Your session has expired. Please log in again.")
		return
	}
	c.sess = sess
}

func (c *Console) logout(ctx context.Context) {
	if c.sess == nil {
		return
	}
	if err := c.deps.Users.Logout(ctx, c.sess.ID); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to drop session")
	}
	c.sess = nil
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		return "", errInputClosed
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) promptID(label string) (int64, error) {
	line, err := c.prompt(label)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(line, 10, 64)
	if err != nil {
		return 0, errBadNumber
	}
	return id, nil
}

func (c *Console) promptInt(label string) (int, error) {
	line, err := c.prompt(label)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, errBadNumber
	}
	return n, nil
}

func (c *Console) promptMoney(label string) (decimal.Decimal, error) {
	line, err := c.prompt(label)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(line, c.deps.Currency))
	if err != nil {
		return decimal.Zero, errBadPrice
	}
	return d, nil
}

// promptDate re-asks until the answer is a valid YYYY-MM-DD date.
func (c *Console) promptDate(label string) (string, error) {
	line, err := c.prompt(label)
	for err == nil {
		if _, perr := models.ParseDate(line); perr == nil {
			return line, nil
		}
		line, err = c.prompt("Invalid format. Please use YYYY-MM-DD: ")
	}
	return "", err
}

func (c *Console) promptRange() (models.DateRange, error) {
	from, err := c.promptDate("Enter check-in date (YYYY-MM-DD): ")
	if err != nil {
		return models.DateRange{}, err
	}
	to, err := c.promptDate("Enter check-out date (YYYY-MM-DD): ")
	if err != nil {
		return models.DateRange{}, err
	}
	return models.NewDateRange(from, to)
}

func (c *Console) money(d decimal.Decimal) string {
	return c.deps.Currency + d.StringFixed(2)
}
