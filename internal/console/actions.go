package console

import (
	"context"
	"strings"

	"hotel/internal/models"
	"hotel/internal/service"
)

func (c *Console) login(ctx context.Context) error {
	c.println("\n===== Login =====")
	login, err := c.prompt("Username: ")
	if err != nil {
		return err
	}
	password, err := c.prompt("Password: ")
	if err != nil {
		return err
	}

	sess, err := c.deps.Users.Authenticate(ctx, login, service.HashCredential(password))
	if err != nil {
		return err
	}
	c.sess = sess
	c.println("Login successful!")
	return nil
}

func (c *Console) register(ctx context.Context) error {
	c.println("\n===== Registration =====")
	return c.createUser(ctx, nil, models.RoleUser, "Registration successful! You can now log in.")
}

func (c *Console) registerByAdmin(ctx context.Context) error {
	c.println("\n===== Admin: Register New User =====")
	role, ok, err := c.promptRole("Select a role for the new user:")
	if err != nil || !ok {
		return err
	}
	return c.createUser(ctx, c.sess, role, "User registered successfully.")
}

func (c *Console) createUser(ctx context.Context, sess *models.Session, role models.Role, success string) error {
	login, err := c.prompt("Enter new username: ")
	if err != nil {
		return err
	}
	password, err := c.prompt("Enter new password: ")
	if err != nil {
		return err
	}
	if password == "" {
		return service.ErrEmptyField
	}

	created, err := c.deps.Users.AddUser(ctx, sess, login, service.HashCredential(password), role)
	if err != nil {
		return err
	}
	if !created {
		c.println("Registration failed. Username might already exist.")
		return nil
	}
	c.println(success)
	return nil
}

// promptRole returns ok=false when the operator cancels with 0.
func (c *Console) promptRole(title string) (models.Role, bool, error) {
	c.println(title)
	c.println("1. Admin\n2. Manager\n3. User\n0. Cancel")
	n, err := c.promptInt("Enter your choice: ")
	if err != nil {
		return "", false, err
	}
	switch n {
	case 1:
		return models.RoleAdmin, true, nil
	case 2:
		return models.RoleManager, true, nil
	case 3:
		return models.RoleUser, true, nil
	case 0:
		c.println("Cancelled.")
		return "", false, nil
	default:
		c.println("Invalid choice.")
		return "", false, nil
	}
}

func (c *Console) manageUserRoles(ctx context.Context) error {
	c.println("\n--- User Role Management ---")
	users, err := c.deps.Users.ListUsers(ctx, c.sess)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		c.println("No users found in the system.")
		return nil
	}

	c.printf("%-5s%-20s%-10s\n", "ID", "Login", "Role")
	c.println(strings.Repeat("-", 36))
	for _, u := range users {
		c.printf("%-5d%-20s%-10s\n", u.ID, u.Login, u.Role)
	}
	c.println(strings.Repeat("-", 36))

	id, err := c.promptID("Enter User ID to modify (-1 to cancel): ")
	if err != nil {
		return err
	}
	if id == -1 {
		c.println("Role management cancelled.")
		return nil
	}

	var target *models.User
	for i := range users {
		if users[i].ID == id {
			target = &users[i]
		}
	}
	if target == nil {
		c.printf("User with ID %d not found.\n", id)
		return nil
	}

	c.printf("Selected user: %s (%s)\n", target.Login, target.Role)
	role, ok, err := c.promptRole("Select new role:")
	if err != nil || !ok {
		return err
	}

	if _, err := c.deps.Users.UpdateRole(ctx, c.sess, target.ID, role); err != nil {
		return err
	}
	c.println("User role updated successfully.")
	return nil
}

func (c *Console) viewAllBookings(ctx context.Context) error {
	c.println("\n--- All Bookings ---")
	bookings, err := c.deps.Bookings.ListBookings(ctx, c.sess)
	if err != nil {
		return err
	}
	if len(bookings) == 0 {
		c.println("No bookings found.")
		return nil
	}
	c.printBookings(ctx, bookings)
	return nil
}

func (c *Console) viewMyBookings(ctx context.Context) error {
	c.println("\n--- My Bookings ---")
	bookings, err := c.deps.Bookings.MyBookings(ctx, c.sess)
	if err != nil {
		return err
	}
	if len(bookings) == 0 {
		c.println("You have no bookings.")
		return nil
	}
	c.printBookings(ctx, bookings)
	return nil
}

func (c *Console) printBookings(ctx context.Context, bookings []models.Booking) {
	numbers := map[int64]string{}
	if rooms, err := c.deps.Rooms.ListRooms(ctx); err == nil {
		for _, r := range rooms {
			numbers[r.ID] = r.Number
		}
	}
	for _, b := range bookings {
		number, ok := numbers[b.RoomID]
		if !ok {
			number = "N/A"
		}
		c.println("\n--------------------")
		c.printf("Booking ID: %d\n", b.ID)
		c.printf("Room: %s\n", number)
		c.printf("Dates: %s\n", b.Range())
		c.printf("Status: %s\n", b.Status)
		c.println("--------------------")
	}
}

func (c *Console) findBooking(ctx context.Context, label string) (*models.Booking, error) {
	id, err := c.promptID(label)
	if err != nil {
		return nil, err
	}
	return c.deps.Bookings.GetBooking(ctx, c.sess, id)
}

func (c *Console) manageBookingStatus(ctx context.Context) error {
	booking, err := c.findBooking(ctx, "Enter booking ID to manage: ")
	if err != nil {
		return err
	}

	c.printf("Current status: %s\n", booking.Status)
	targets := c.deps.Bookings.StatusTargets(booking.Status)
	if len(targets) == 0 {
		c.println("No status changes are available for this booking.")
		return nil
	}

	c.println("Select new status:")
	for i, st := range targets {
		c.printf("%d. %s\n", i+1, statusTitle(st))
	}
	n, err := c.promptInt("Enter choice: ")
	if err != nil {
		return err
	}
	if n < 1 || n > len(targets) {
		c.println("Invalid choice.")
		return nil
	}

	if err := c.deps.Bookings.UpdateStatus(ctx, c.sess, booking, targets[n-1]); err != nil {
		return err
	}
	c.println("Booking status updated.")
	return nil
}

func statusTitle(st models.BookingStatus) string {
	s := st.String()
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (c *Console) addServiceToBooking(ctx context.Context) error {
	booking, err := c.findBooking(ctx, "Enter booking ID: ")
	if err != nil {
		return err
	}
	if err := c.viewAllServices(ctx); err != nil {
		return err
	}
	serviceID, err := c.promptID("Enter service ID to add: ")
	if err != nil {
		return err
	}
	qty, err := c.promptInt("Enter quantity: ")
	if err != nil {
		return err
	}

	if err := c.deps.Bookings.AddServiceToBooking(ctx, c.sess, booking, serviceID, qty); err != nil {
		return err
	}
	c.println("Service added.")
	return nil
}

func (c *Console) removeServiceFromBooking(ctx context.Context) error {
	booking, err := c.findBooking(ctx, "Enter booking ID: ")
	if err != nil {
		return err
	}
	serviceID, err := c.promptID("Enter service ID to remove: ")
	if err != nil {
		return err
	}
	if err := c.deps.Bookings.RemoveServiceFromBooking(ctx, c.sess, booking, serviceID); err != nil {
		return err
	}
	c.println("Service removed.")
	return nil
}

func (c *Console) calculateBill(ctx context.Context) error {
	booking, err := c.findBooking(ctx, "Enter booking ID to calculate bill: ")
	if err != nil {
		return err
	}
	bill, err := c.deps.Bookings.ComputeBill(ctx, booking)
	if err != nil {
		return err
	}

	c.printf("\n--- Bill for Booking #%d ---\n", booking.ID)
	c.printf("Room: %s (%s) for %d day(s): %s\n", bill.Room.Number, bill.Room.Type, bill.Days, c.money(bill.RoomCost))
	if len(bill.Lines) > 0 {
		c.println("Services:")
		for _, l := range bill.Lines {
			c.printf("  - %s (x%d): %s\n", l.Service.Name, l.Quantity, c.money(l.Cost))
		}
	}
	c.println("--------------------")
	c.printf("Total cost: %s\n", c.money(bill.Total))
	return nil
}

func (c *Console) viewAllRooms(ctx context.Context) error {
	c.println("\n--- All Rooms ---")
	rooms, err := c.deps.Rooms.ListRooms(ctx)
	if err != nil {
		return err
	}
	if len(rooms) == 0 {
		c.println("No rooms found.")
		return nil
	}
	c.printRooms(rooms)
	return nil
}

func (c *Console) printRooms(rooms []models.Room) {
	c.printf("%-5s%-10s%-15s%-15s%s\n", "ID", "Number", "Type", "Price/Day", "Description")
	c.println(strings.Repeat("-", 72))
	for _, r := range rooms {
		c.printf("%-5d%-10s%-15s%-15s%s\n", r.ID, r.Number, r.Type, c.money(r.PricePerDay), r.Description)
	}
}

func (c *Console) addRoom(ctx context.Context) error {
	c.println("\n--- Add New Room ---")
	number, err := c.prompt("Enter room number: ")
	if err != nil {
		return err
	}
	roomType, err := c.prompt("Enter room type (single/double/suite/etc.): ")
	if err != nil {
		return err
	}
	price, err := c.promptMoney("Enter price per day: " + c.deps.Currency)
	if err != nil {
		return err
	}
	description, err := c.prompt("Enter room description: ")
	if err != nil {
		return err
	}

	created, err := c.deps.Rooms.AddRoom(ctx, c.sess, number, roomType, price, description)
	if err != nil {
		return err
	}
	if !created {
		c.println("Failed to add room. Room number might already exist.")
		return nil
	}
	c.println("Room added successfully!")
	return nil
}

func (c *Console) viewAllServices(ctx context.Context) error {
	c.println("\n--- All Services ---")
	services, err := c.deps.Catalog.ListServices(ctx)
	if err != nil {
		return err
	}
	if len(services) == 0 {
		c.println("No services found.")
		return nil
	}
	c.printf("%-5s%-30s%s\n", "ID", "Name", "Price")
	c.println(strings.Repeat("-", 45))
	for _, s := range services {
		c.printf("%-5d%-30s%s\n", s.ID, s.Name, c.money(s.Price))
	}
	return nil
}

func (c *Console) addService(ctx context.Context) error {
	c.println("\n--- Add New Service ---")
	name, err := c.prompt("Enter service name: ")
	if err != nil {
		return err
	}
	price, err := c.promptMoney("Enter service price: " + c.deps.Currency)
	if err != nil {
		return err
	}

	created, err := c.deps.Catalog.AddService(ctx, c.sess, name, price)
	if err != nil {
		return err
	}
	if !created {
		c.println("Failed to add service. Service name might already exist.")
		return nil
	}
	c.println("Service added successfully!")
	return nil
}

func (c *Console) viewAvailableRooms(ctx context.Context) error {
	r, err := c.promptRange()
	if err != nil {
		return err
	}
	c.println("\n--- Available Rooms ---")
	rooms, err := c.deps.Rooms.AvailableRooms(ctx, r)
	if err != nil {
		return err
	}
	if len(rooms) == 0 {
		c.println("No rooms available for the selected dates.")
		return nil
	}
	c.printRooms(rooms)
	return nil
}

func (c *Console) makeBooking(ctx context.Context) error {
	roomID, err := c.promptID("Enter room ID to book: ")
	if err != nil {
		return err
	}
	if _, err := c.deps.Rooms.GetRoom(ctx, roomID); err != nil {
		return err
	}
	r, err := c.promptRange()
	if err != nil {
		return err
	}

	booking, err := c.deps.Bookings.CreateBooking(ctx, c.sess, roomID, r)
	if err != nil {
		return err
	}
	c.printf("Booking successful! Your booking ID is %d\n", booking.ID)
	return nil
}

func (c *Console) exportBookings(ctx context.Context) error {
	if c.deps.Exporter == nil {
		c.println("Export is not configured.")
		return nil
	}
	from, err := c.prompt("Enter start date (YYYY-MM-DD, empty for all bookings): ")
	if err != nil {
		return err
	}

	var period *models.DateRange
	if from != "" {
		to, err := c.promptDate("Enter end date (YYYY-MM-DD): ")
		if err != nil {
			return err
		}
		r, err := models.NewDateRange(from, to)
		if err != nil {
			return err
		}
		period = &r
	}

	path, err := c.deps.Exporter.ExportBookings(ctx, period)
	if err != nil {
		return err
	}
	c.printf("Bookings exported to %s\n", path)
	return nil
}
