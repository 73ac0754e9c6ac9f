package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"motorbay/m1/internal/auth"
	"motorbay/m1/internal/models"
)

// Seed fills an empty database with demo accounts, listings in every
// lifecycle state, conversations and reports. It is a no-op when users
// already exist, so it is safe to run on every start in development.
func Seed(ctx context.Context, database *mongo.Database) error {
	count, err := database.Collection("users").CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to check for existing users: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()

	adminHash, err := auth.HashPassword("Admin123!")
	if err != nil {
		return err
	}
	userHash, err := auth.HashPassword("User123!")
	if err != nil {
		return err
	}

	admin := models.User{
		ID: primitive.NewObjectID(), Email: "admin@example.com", PasswordHash: adminHash,
		DisplayName: "Admin User", Phone: "+1234567890", Location: "New York, NY",
		IsAdmin: true, CreatedAt: now.AddDate(0, -6, 0), UpdatedAt: now.AddDate(0, -6, 0),
	}
	john := models.User{
		ID: primitive.NewObjectID(), Email: "john.doe@example.com", PasswordHash: userHash,
		DisplayName: "John Doe", Phone: "+1234567891", Location: "Los Angeles, CA",
		CreatedAt: now.AddDate(0, -4, 0), UpdatedAt: now.AddDate(0, -4, 0),
	}
	jane := models.User{
		ID: primitive.NewObjectID(), Email: "jane.smith@example.com", PasswordHash: userHash,
		DisplayName: "Jane Smith", Phone: "+1234567892", Location: "Chicago, IL",
		CreatedAt: now.AddDate(0, -3, 0), UpdatedAt: now.AddDate(0, -3, 0),
	}
	bob := models.User{
		ID: primitive.NewObjectID(), Email: "bob.wilson@example.com", PasswordHash: userHash,
		DisplayName: "Bob Wilson", Phone: "+1234567893", Location: "Houston, TX",
		CreatedAt: now.AddDate(0, -2, 0), UpdatedAt: now.AddDate(0, -2, 0),
	}
	users := []interface{}{admin, john, jane, bob}

	type seed struct {
		seller       models.User
		title        string
		description  string
		price        float64
		mk, model    string
		year         int
		mileage      int
		fuel         string
		transmission string
		body         string
		condition    string
		location     string
		photos       []string
		status       models.ListingStatus
		rejection    string
		age          time.Duration
	}

	day := 24 * time.Hour
	seeds := []seed{
		{john, "2020 Toyota Camry SE - Excellent Condition", "Well-maintained sedan, single owner, full service history. Great commuter car.", 24500, "Toyota", "Camry", 2020, 32000, "petrol", "automatic", "sedan", "used", "Los Angeles, CA", []string{"/images/camry1.jpg", "/images/camry2.jpg"}, models.StatusPublished, "", 14 * day},
		{jane, "2019 Honda CR-V EX AWD", "Spacious SUV with AWD, sunroof, lane assist and adaptive cruise.", 26900, "Honda", "CR-V", 2019, 45000, "petrol", "automatic", "suv", "used", "Chicago, IL", []string{"/images/crv1.jpg"}, models.StatusPublished, "", 13 * day},
		{bob, "2021 Tesla Model 3 Long Range", "Dual motor AWD, autopilot, premium interior. Supercharging included.", 45000, "Tesla", "Model 3", 2021, 18000, "electric", "automatic", "sedan", "used", "Houston, TX", []string{"/images/tesla1.jpg", "/images/tesla2.jpg"}, models.StatusPublished, "", 12 * day},
		{john, "2018 Ford F-150 XLT 4x4", "Reliable work truck. Tow package, bed liner, recent tires.", 32000, "Ford", "F-150", 2018, 62000, "petrol", "automatic", "truck", "used", "Dallas, TX", []string{"/images/f150-1.jpg"}, models.StatusPublished, "", 11 * day},
		{jane, "2022 Mazda CX-5 Touring", "Nearly new compact SUV. Heated seats, blind spot monitoring.", 29500, "Mazda", "CX-5", 2022, 12000, "petrol", "automatic", "suv", "used", "Seattle, WA", []string{"/images/cx5-1.jpg"}, models.StatusPublished, "", 10 * day},
		{bob, "2017 BMW 3 Series 330i", "Sport package, well serviced, new brakes. Drives beautifully.", 23000, "BMW", "3 Series", 2017, 55000, "petrol", "automatic", "sedan", "used", "Boston, MA", []string{"/images/bmw1.jpg"}, models.StatusPublished, "", 9 * day},
		{jane, "2020 Volkswagen Jetta GLI", "Sporty sedan with turbocharged engine. Manual transmission, sport suspension.", 22000, "Volkswagen", "Jetta", 2020, 28000, "petrol", "manual", "sedan", "used", "Portland, OR", []string{"/images/jetta1.jpg", "/images/jetta2.jpg"}, models.StatusPublished, "", 7 * day},
		{bob, "2019 Jeep Wrangler Unlimited Sahara", "Iconic off-road SUV. 4x4, removable top, upgraded wheels and tires.", 36000, "Jeep", "Wrangler", 2019, 35000, "petrol", "automatic", "suv", "used", "Austin, TX", []string{"/images/wrangler1.jpg"}, models.StatusPublished, "", 6 * day},
		{jane, "2021 Ford Mustang GT Premium", "American muscle car with 5.0L V8. Performance package, active exhaust.", 42000, "Ford", "Mustang", 2021, 8000, "petrol", "manual", "coupe", "used", "Detroit, MI", []string{"/images/mustang1.jpg", "/images/mustang2.jpg"}, models.StatusPublished, "", 1 * day},
		{john, "2020 Chevrolet Corvette Stingray", "Mid-engine supercar with breathtaking performance. Z51 package.", 75000, "Chevrolet", "Corvette", 2020, 5000, "petrol", "automatic", "coupe", "used", "Las Vegas, NV", []string{"/images/corvette1.jpg", "/images/corvette2.jpg"}, models.StatusPublished, "", 0},
		{bob, "2019 Volkswagen Golf GTI", "Hot hatch with turbocharged fun. Manual transmission, plaid seats.", 23000, "Volkswagen", "Golf", 2019, 32000, "petrol", "manual", "hatchback", "used", "Minneapolis, MN", []string{"/images/gti1.jpg", "/images/gti2.jpg"}, models.StatusPublished, "", 0},
		{john, "2021 Toyota Highlander XLE", "Three-row family SUV with excellent safety ratings. Hybrid powertrain.", 42000, "Toyota", "Highlander", 2021, 20000, "hybrid", "automatic", "suv", "used", "Columbus, OH", []string{"/images/highlander1.jpg"}, models.StatusPublished, "", 0},
		{john, "2023 Honda Civic Type R", "Brand new performance hatchback. Limited edition, track-ready.", 48000, "Honda", "Civic", 2023, 500, "petrol", "manual", "hatchback", "new", "Los Angeles, CA", []string{"/images/typer1.jpg"}, models.StatusPendingApproval, "", 2 * time.Hour},
		{jane, "2022 Ford Bronco Wildtrak", "Off-road beast with removable roof. Sasquatch package, advanced 4x4.", 55000, "Ford", "Bronco", 2022, 3000, "petrol", "automatic", "suv", "used", "Denver, CO", []string{"/images/bronco1.jpg", "/images/bronco2.jpg"}, models.StatusPendingApproval, "", 3 * time.Hour},
		{bob, "2021 Audi e-tron Premium Plus", "Luxury electric SUV with impressive range. Virtual cockpit, fast charging.", 58000, "Audi", "e-tron", 2021, 12000, "electric", "automatic", "suv", "used", "Seattle, WA", []string{"/images/etron1.jpg"}, models.StatusPendingApproval, "", 5 * time.Hour},
		{bob, "2015 Toyota Corolla", "Needs work. Engine issues.", 3000, "Toyota", "Corolla", 2015, 120000, "petrol", "automatic", "sedan", "for_parts", "Unknown", []string{"/images/corolla1.jpg"}, models.StatusRejected, "Insufficient description and unclear condition. Please provide more details about the vehicle's issues and include better photos.", 5 * day},
		{john, "Amazing Car - Best Deal!!!", "Call now! Won't last long! Cash only!", 5000, "Honda", "Civic", 2010, 150000, "petrol", "manual", "sedan", "used", "Somewhere", nil, models.StatusRejected, "Listing appears spammy with excessive punctuation and vague details. Please provide accurate vehicle information and professional description.", 3 * day},
		{jane, "2016 Subaru Impreza project", "Thinking about selling my Impreza. Photos to come.", 9000, "Subaru", "Impreza", 2016, 90000, "petrol", "manual", "hatchback", "used", "Chicago, IL", nil, models.StatusDraft, "", 0},
	}

	listings := make([]models.Listing, 0, len(seeds))
	listingDocs := make([]interface{}, 0, len(seeds))
	for _, s := range seeds {
		created := now.Add(-s.age)
		l := models.Listing{
			ID:           primitive.NewObjectID(),
			SellerID:     s.seller.ID,
			SellerName:   s.seller.DisplayName,
			Title:        s.title,
			Description:  s.description,
			Price:        s.price,
			Make:         s.mk,
			Model:        s.model,
			Year:         s.year,
			Mileage:      s.mileage,
			FuelType:     s.fuel,
			Transmission: s.transmission,
			BodyType:     s.body,
			Condition:    s.condition,
			Location:     s.location,
			Photos:       models.EncodePhotos(s.photos),
			Status:       s.status,
			CreatedAt:    created,
			UpdatedAt:    created,
		}
		if s.rejection != "" {
			reason := s.rejection
			l.RejectionReason = &reason
		}
		listings = append(listings, l)
		listingDocs = append(listingDocs, l)
	}

	favourites := []interface{}{
		models.Favourite{ID: primitive.NewObjectID(), UserID: jane.ID, ListingID: listings[0].ID, CreatedAt: now.Add(-4 * day)},
		models.Favourite{ID: primitive.NewObjectID(), UserID: bob.ID, ListingID: listings[0].ID, CreatedAt: now.Add(-3 * day)},
		models.Favourite{ID: primitive.NewObjectID(), UserID: john.ID, ListingID: listings[1].ID, CreatedAt: now.Add(-2 * day)},
		models.Favourite{ID: primitive.NewObjectID(), UserID: bob.ID, ListingID: listings[2].ID, CreatedAt: now.Add(-1 * day)},
	}

	thread1 := models.MessageThread{
		ID: primitive.NewObjectID(), ListingID: listings[0].ID, ListingTitle: listings[0].Title,
		BuyerID: jane.ID, BuyerName: jane.DisplayName, SellerID: john.ID, SellerName: john.DisplayName,
		CreatedAt: now.Add(-5 * day), UpdatedAt: now.Add(-4 * day),
	}
	thread2 := models.MessageThread{
		ID: primitive.NewObjectID(), ListingID: listings[2].ID, ListingTitle: listings[2].Title,
		BuyerID: john.ID, BuyerName: john.DisplayName, SellerID: bob.ID, SellerName: bob.DisplayName,
		CreatedAt: now.Add(-3 * day), UpdatedAt: now.Add(-3 * day),
	}
	threads := []interface{}{thread1, thread2}

	messages := []interface{}{
		models.Message{ID: primitive.NewObjectID(), ThreadID: thread1.ID, SenderID: jane.ID, SenderName: jane.DisplayName, Body: "Hi! I'm interested in your Camry. Is it still available?", SentAt: now.Add(-5 * day)},
		models.Message{ID: primitive.NewObjectID(), ThreadID: thread1.ID, SenderID: john.ID, SenderName: john.DisplayName, Body: "Yes, it's still available! Would you like to schedule a test drive?", SentAt: now.Add(-5*day + 2*time.Hour)},
		models.Message{ID: primitive.NewObjectID(), ThreadID: thread1.ID, SenderID: jane.ID, SenderName: jane.DisplayName, Body: "That would be great! I'm available this weekend. What times work for you?", SentAt: now.Add(-4 * day)},
		models.Message{ID: primitive.NewObjectID(), ThreadID: thread2.ID, SenderID: john.ID, SenderName: john.DisplayName, Body: "Hello, does the Tesla come with the original charger and cables?", SentAt: now.Add(-3 * day)},
		models.Message{ID: primitive.NewObjectID(), ThreadID: thread2.ID, SenderID: bob.ID, SenderName: bob.DisplayName, Body: "Yes, it includes the mobile connector and all original accessories.", SentAt: now.Add(-3*day + 3*time.Hour)},
	}

	spammy := listings[16]
	reports := []interface{}{
		models.Report{ID: primitive.NewObjectID(), ListingID: spammy.ID, ListingTitle: spammy.Title, ReporterID: jane.ID, ReporterName: jane.DisplayName, Reason: models.ReportReasonMisleading, Details: "The price seems too good to be true for a vehicle in this condition.", CreatedAt: now.Add(-1 * day)},
		models.Report{ID: primitive.NewObjectID(), ListingID: spammy.ID, ListingTitle: spammy.Title, ReporterID: bob.ID, ReporterName: bob.DisplayName, Reason: models.ReportReasonScam, Details: "Seller is asking for payment before viewing the vehicle.", CreatedAt: now.Add(-12 * time.Hour)},
		models.Report{ID: primitive.NewObjectID(), ListingID: listings[15].ID, ListingTitle: listings[15].Title, ReporterID: john.ID, ReporterName: john.DisplayName, Reason: models.ReportReasonOther, Details: "Vehicle VIN doesn't match the description provided.", CreatedAt: now.Add(-6 * time.Hour)},
	}

	inserts := []struct {
		coll string
		docs []interface{}
	}{
		{"users", users},
		{"listings", listingDocs},
		{"favourites", favourites},
		{"threads", threads},
		{"messages", messages},
		{"reports", reports},
	}
	for _, ins := range inserts {
		ins := ins
		err := Try(func() error {
			_, err := database.Collection(ins.coll).InsertMany(ctx, ins.docs)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to seed %s: %w", ins.coll, err)
		}
	}

	log.Printf("Seeded database: %d users, %d listings, %d threads, %d reports",
		len(users), len(listingDocs), len(threads), len(reports))
	return nil
}
