package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"foodmarket/internal/domain"
)

const (
	foodsCollection     = "foods"
	vendorsCollection   = "vendors"
	customersCollection = "customers"
	ordersCollection    = "orders"
	countersCollection  = "counters"

	orderCounterID = "orderNumber"
)

// MongoStore документное хранилище. Реализует все репозитории и TxManager.
type MongoStore struct {
	client       *mongo.Client
	db           *mongo.Database
	transactions bool
}

// NewMongoStore подключается к MongoDB и создаёт индексы.
// transactions=true требует replica set; иначе используется компенсация.
func NewMongoStore(ctx context.Context, uri, database string, transactions bool) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect mongo")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping mongo")
	}
	s := &MongoStore{client: client, db: client.Database(database), transactions: transactions}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	if _, err := s.db.Collection(customersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}}, Options: unique,
	}); err != nil {
		return errors.Wrap(err, "create customers.email index")
	}
	if _, err := s.db.Collection(vendorsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}}, Options: unique,
	}); err != nil {
		return errors.Wrap(err, "create vendors.email index")
	}
	if _, err := s.db.Collection(ordersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "orderID", Value: 1}}, Options: unique,
	}); err != nil {
		return errors.Wrap(err, "create orders.orderID index")
	}
	if _, err := s.db.Collection(foodsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "vendorId", Value: 1}},
	}); err != nil {
		return errors.Wrap(err, "create foods.vendorId index")
	}
	return nil
}

var (
	_ FoodRepository     = (*MongoStore)(nil)
	_ VendorRepository   = (*MongoStore)(nil)
	_ CustomerRepository = (*MongoStore)(nil)
	_ OrderRepository    = (*MongoStore)(nil)
	_ TxManager          = (*MongoStore)(nil)
)

// documents

type foodDoc struct {
	ID          string               `bson:"_id"`
	VendorID    string               `bson:"vendorId"`
	Name        string               `bson:"name"`
	Description string               `bson:"description"`
	Category    string               `bson:"category"`
	FoodType    []string             `bson:"foodType"`
	ReadyTime   int                  `bson:"readyTime"`
	Price       primitive.Decimal128 `bson:"price"`
	Rating      float64              `bson:"rating"`
	Images      []string             `bson:"images"`
}

type orderLineDoc struct {
	Food     foodDoc              `bson:"food"`
	Unit     int                  `bson:"unit"`
	Subtotal primitive.Decimal128 `bson:"subtotal"`
}

type orderDoc struct {
	ID              string               `bson:"_id"`
	OrderID         string               `bson:"orderID"`
	Items           []orderLineDoc       `bson:"items"`
	TotalAmount     primitive.Decimal128 `bson:"totalAmount"`
	OrderDate       time.Time            `bson:"orderDate"`
	PaidThrough     string               `bson:"paidThrough"`
	PaymentResponse string               `bson:"paymentResponse"`
	OrderStatus     string               `bson:"orderStatus"`
}

type vendorDoc struct {
	ID               string   `bson:"_id"`
	Name             string   `bson:"name"`
	OwnerName        string   `bson:"ownerName"`
	FoodType         []string `bson:"foodType"`
	Pincode          string   `bson:"pincode"`
	Address          string   `bson:"address"`
	Phone            string   `bson:"phone"`
	Email            string   `bson:"email"`
	PasswordHash     string   `bson:"password"`
	ServiceAvailable bool     `bson:"serviceAvailability"`
	CoverImages      []string `bson:"coverImages"`
	Rating           float64  `bson:"rating"`
	Foods            []string `bson:"foods"`
}

type customerDoc struct {
	ID           string   `bson:"_id"`
	Email        string   `bson:"email"`
	Phone        string   `bson:"phone"`
	PasswordHash string   `bson:"password"`
	FirstName    string   `bson:"firstName"`
	LastName     string   `bson:"lastName"`
	Address      string   `bson:"address"`
	Verified     bool     `bson:"verified"`
	Orders       []string `bson:"orders"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, errors.Wrapf(err, "convert %s to decimal128", d.String())
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "convert decimal128 %s", v.String())
	}
	return d, nil
}

func newFoodDoc(f domain.FoodItem) (foodDoc, error) {
	price, err := toDecimal128(f.Price)
	if err != nil {
		return foodDoc{}, err
	}
	return foodDoc{
		ID: f.ID, VendorID: f.VendorID, Name: f.Name, Description: f.Description,
		Category: f.Category, FoodType: f.FoodType, ReadyTime: f.ReadyTime,
		Price: price, Rating: f.Rating, Images: f.Images,
	}, nil
}

func (d foodDoc) toDomain() (domain.FoodItem, error) {
	price, err := fromDecimal128(d.Price)
	if err != nil {
		return domain.FoodItem{}, err
	}
	return domain.FoodItem{
		ID: d.ID, VendorID: d.VendorID, Name: d.Name, Description: d.Description,
		Category: d.Category, FoodType: d.FoodType, ReadyTime: d.ReadyTime,
		Price: price, Rating: d.Rating, Images: d.Images,
	}, nil
}

func newOrderDoc(o domain.Order) (orderDoc, error) {
	total, err := toDecimal128(o.TotalAmount)
	if err != nil {
		return orderDoc{}, err
	}
	items := make([]orderLineDoc, 0, len(o.Items))
	for _, it := range o.Items {
		food, err := newFoodDoc(it.Food)
		if err != nil {
			return orderDoc{}, err
		}
		sub, err := toDecimal128(it.Subtotal)
		if err != nil {
			return orderDoc{}, err
		}
		items = append(items, orderLineDoc{Food: food, Unit: it.Unit, Subtotal: sub})
	}
	return orderDoc{
		ID: o.ID, OrderID: o.OrderID, Items: items, TotalAmount: total,
		OrderDate: o.OrderDate, PaidThrough: o.PaidThrough,
		PaymentResponse: o.PaymentResponse, OrderStatus: string(o.OrderStatus),
	}, nil
}

func (d orderDoc) toDomain() (domain.Order, error) {
	total, err := fromDecimal128(d.TotalAmount)
	if err != nil {
		return domain.Order{}, err
	}
	items := make([]domain.PricedCartLine, 0, len(d.Items))
	for _, it := range d.Items {
		food, err := it.Food.toDomain()
		if err != nil {
			return domain.Order{}, err
		}
		sub, err := fromDecimal128(it.Subtotal)
		if err != nil {
			return domain.Order{}, err
		}
		items = append(items, domain.PricedCartLine{Food: food, Unit: it.Unit, Subtotal: sub})
	}
	return domain.Order{
		ID: d.ID, OrderID: d.OrderID, Items: items, TotalAmount: total,
		OrderDate: d.OrderDate.UTC(), PaidThrough: d.PaidThrough,
		PaymentResponse: d.PaymentResponse, OrderStatus: domain.OrderStatus(d.OrderStatus),
	}, nil
}

func newVendorDoc(v domain.Vendor) vendorDoc {
	foods := v.Foods
	if foods == nil {
		foods = []string{}
	}
	return vendorDoc{
		ID: v.ID, Name: v.Name, OwnerName: v.OwnerName, FoodType: v.FoodType,
		Pincode: v.Pincode, Address: v.Address, Phone: v.Phone, Email: v.Email,
		PasswordHash: v.PasswordHash, ServiceAvailable: v.ServiceAvailable,
		CoverImages: v.CoverImages, Rating: v.Rating, Foods: foods,
	}
}

func (d vendorDoc) toDomain() domain.Vendor {
	return domain.Vendor{
		ID: d.ID, Name: d.Name, OwnerName: d.OwnerName, FoodType: d.FoodType,
		Pincode: d.Pincode, Address: d.Address, Phone: d.Phone, Email: d.Email,
		PasswordHash: d.PasswordHash, ServiceAvailable: d.ServiceAvailable,
		CoverImages: d.CoverImages, Rating: d.Rating, Foods: append([]string{}, d.Foods...),
	}
}

func newCustomerDoc(c domain.Customer) customerDoc {
	orders := c.Orders
	if orders == nil {
		orders = []string{}
	}
	return customerDoc{
		ID: c.ID, Email: c.Email, Phone: c.Phone, PasswordHash: c.PasswordHash,
		FirstName: c.FirstName, LastName: c.LastName, Address: c.Address,
		Verified: c.Verified, Orders: orders,
	}
}

func (d customerDoc) toDomain() domain.Customer {
	return domain.Customer{
		ID: d.ID, Email: d.Email, Phone: d.Phone, PasswordHash: d.PasswordHash,
		FirstName: d.FirstName, LastName: d.LastName, Address: d.Address,
		Verified: d.Verified, Orders: append([]string{}, d.Orders...),
	}
}

// FoodRepository implementation

func (s *MongoStore) CreateFood(ctx context.Context, f *domain.FoodItem) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	doc, err := newFoodDoc(*f)
	if err != nil {
		return err
	}
	if _, err := s.db.Collection(foodsCollection).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return errors.Wrap(err, "insert food")
	}
	id := f.ID
	compensate(ctx, func(ctx context.Context) error {
		_, err := s.db.Collection(foodsCollection).DeleteOne(ctx, bson.M{"_id": id})
		return err
	})
	return nil
}

func (s *MongoStore) GetFood(ctx context.Context, id string) (*domain.FoodItem, error) {
	var doc foodDoc
	err := s.db.Collection(foodsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find food")
	}
	f, err := doc.toDomain()
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *MongoStore) FindFoods(ctx context.Context, ids []string) ([]domain.FoodItem, error) {
	if len(ids) == 0 {
		return []domain.FoodItem{}, nil
	}
	return s.findFoods(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

func (s *MongoStore) ListFoods(ctx context.Context, f FoodFilter) ([]domain.FoodItem, error) {
	filter := bson.M{}
	if f.VendorID != "" {
		filter["vendorId"] = f.VendorID
	}
	if f.MaxReadyTime != nil {
		filter["readyTime"] = bson.M{"$lte": *f.MaxReadyTime}
	}
	return s.findFoods(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (s *MongoStore) findFoods(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.FoodItem, error) {
	var findOpts []*options.FindOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}
	cur, err := s.db.Collection(foodsCollection).Find(ctx, filter, findOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "find foods")
	}
	var docs []foodDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode foods")
	}
	out := make([]domain.FoodItem, 0, len(docs))
	for _, d := range docs {
		f, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// VendorRepository implementation

func (s *MongoStore) CreateVendor(ctx context.Context, v *domain.Vendor) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.Foods == nil {
		v.Foods = []string{}
	}
	if _, err := s.db.Collection(vendorsCollection).InsertOne(ctx, newVendorDoc(*v)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return errors.Wrap(err, "insert vendor")
	}
	return nil
}

func (s *MongoStore) GetVendor(ctx context.Context, id string) (*domain.Vendor, error) {
	return s.findVendor(ctx, bson.M{"_id": id})
}

func (s *MongoStore) GetVendorByEmail(ctx context.Context, email string) (*domain.Vendor, error) {
	return s.findVendor(ctx, bson.M{"email": email})
}

func (s *MongoStore) findVendor(ctx context.Context, filter bson.M) (*domain.Vendor, error) {
	var doc vendorDoc
	err := s.db.Collection(vendorsCollection).FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find vendor")
	}
	v := doc.toDomain()
	return &v, nil
}

func (s *MongoStore) ListVendors(ctx context.Context, f VendorFilter) ([]domain.Vendor, error) {
	filter := bson.M{}
	if f.Pincode != "" {
		filter["pincode"] = f.Pincode
	}
	if f.AvailableOnly {
		filter["serviceAvailability"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "_id", Value: 1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	cur, err := s.db.Collection(vendorsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find vendors")
	}
	var docs []vendorDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode vendors")
	}
	out := make([]domain.Vendor, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (s *MongoStore) UpdateVendorProfile(ctx context.Context, id string, p VendorProfile) error {
	return s.updateVendor(ctx, id, bson.M{"$set": bson.M{
		"name": p.Name, "address": p.Address, "phone": p.Phone, "foodType": p.FoodType,
	}}, "update vendor profile")
}

func (s *MongoStore) SetServiceAvailable(ctx context.Context, id string, available bool) error {
	return s.updateVendor(ctx, id, bson.M{"$set": bson.M{"serviceAvailability": available}}, "update vendor service")
}

func (s *MongoStore) AppendFood(ctx context.Context, vendorID, foodID string) error {
	if err := s.updateVendor(ctx, vendorID, bson.M{"$push": bson.M{"foods": foodID}}, "append food to vendor"); err != nil {
		return err
	}
	compensate(ctx, func(ctx context.Context) error {
		_, err := s.db.Collection(vendorsCollection).UpdateOne(ctx,
			bson.M{"_id": vendorID},
			bson.M{"$pull": bson.M{"foods": foodID}},
		)
		return err
	})
	return nil
}

func (s *MongoStore) updateVendor(ctx context.Context, id string, update bson.M, op string) error {
	res, err := s.db.Collection(vendorsCollection).UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return errors.Wrap(err, op)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CustomerRepository implementation

func (s *MongoStore) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Orders == nil {
		c.Orders = []string{}
	}
	if _, err := s.db.Collection(customersCollection).InsertOne(ctx, newCustomerDoc(*c)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return errors.Wrap(err, "insert customer")
	}
	return nil
}

func (s *MongoStore) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.findCustomer(ctx, bson.M{"_id": id})
}

func (s *MongoStore) GetCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return s.findCustomer(ctx, bson.M{"email": email})
}

func (s *MongoStore) findCustomer(ctx context.Context, filter bson.M) (*domain.Customer, error) {
	var doc customerDoc
	err := s.db.Collection(customersCollection).FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find customer")
	}
	c := doc.toDomain()
	return &c, nil
}

func (s *MongoStore) AppendOrder(ctx context.Context, customerID, orderID string) error {
	res, err := s.db.Collection(customersCollection).UpdateOne(ctx,
		bson.M{"_id": customerID},
		bson.M{"$push": bson.M{"orders": orderID}},
	)
	if err != nil {
		return errors.Wrap(err, "append order to customer")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	compensate(ctx, func(ctx context.Context) error {
		_, err := s.db.Collection(customersCollection).UpdateOne(ctx,
			bson.M{"_id": customerID},
			bson.M{"$pull": bson.M{"orders": orderID}},
		)
		return err
	})
	return nil
}

func (s *MongoStore) UpdateCustomerProfile(ctx context.Context, id, firstName, lastName, address string) error {
	res, err := s.db.Collection(customersCollection).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"firstName": firstName, "lastName": lastName, "address": address}},
	)
	if err != nil {
		return errors.Wrap(err, "update customer profile")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// OrderRepository implementation

func (s *MongoStore) NextOrderNumber(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.db.Collection(countersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": orderCounterID},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, errors.Wrap(err, "next order number")
	}
	return orderNumberBase + counter.Seq, nil
}

func (s *MongoStore) CreateOrder(ctx context.Context, o *domain.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	doc, err := newOrderDoc(*o)
	if err != nil {
		return err
	}
	if _, err := s.db.Collection(ordersCollection).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return errors.Wrap(err, "insert order")
	}
	id := o.ID
	compensate(ctx, func(ctx context.Context) error {
		_, err := s.db.Collection(ordersCollection).DeleteOne(ctx, bson.M{"_id": id})
		return err
	})
	return nil
}

func (s *MongoStore) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var doc orderDoc
	err := s.db.Collection(ordersCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find order")
	}
	o, err := doc.toDomain()
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *MongoStore) GetOrders(ctx context.Context, ids []string) ([]domain.Order, error) {
	if len(ids) == 0 {
		return []domain.Order{}, nil
	}
	cur, err := s.db.Collection(ordersCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, errors.Wrap(err, "find orders")
	}
	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}
	byID := make(map[string]domain.Order, len(docs))
	for _, d := range docs {
		o, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		byID[o.ID] = o
	}
	// keep the caller's order
	out := make([]domain.Order, 0, len(docs))
	for _, id := range ids {
		if o, ok := byID[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

// TxManager implementation

type compensationKey struct{}

type compensations struct {
	undo []func(ctx context.Context) error
}

func compensate(ctx context.Context, fn func(ctx context.Context) error) {
	if c, ok := ctx.Value(compensationKey{}).(*compensations); ok {
		c.undo = append(c.undo, fn)
	}
}

// CompensationError откат без транзакции не удался, данные рассогласованы
type CompensationError struct {
	Cause error
	Undo  []error
}

func (e *CompensationError) Error() string {
	return "compensation failed after: " + e.Cause.Error()
}

func (e *CompensationError) Unwrap() error { return e.Cause }

func (s *MongoStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.transactions {
		sess, err := s.client.StartSession()
		if err != nil {
			return errors.Wrap(err, "start session")
		}
		defer sess.EndSession(ctx)
		_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
			return nil, fn(sc)
		})
		return err
	}

	// без replica set: выполняем по шагам и откатываем компенсациями
	c := &compensations{}
	err := fn(context.WithValue(ctx, compensationKey{}, c))
	if err == nil {
		return nil
	}
	var failed []error
	for i := len(c.undo) - 1; i >= 0; i-- {
		if uerr := c.undo[i](context.WithoutCancel(ctx)); uerr != nil {
			failed = append(failed, uerr)
		}
	}
	if len(failed) > 0 {
		return &CompensationError{Cause: err, Undo: failed}
	}
	return err
}
