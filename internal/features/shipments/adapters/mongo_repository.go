package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shipment-tracker/internal/features/shipments/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	shipmentsCollection = "shipments"
	ridersCollection    = "riders"
	staffCollection     = "staffs"
)

// MongoRepository implements ports.ShipmentRepository on MongoDB.
// Riders and staff live in their own collections and are joined on read.
type MongoRepository struct {
	shipments *mongo.Collection
	riders    *mongo.Collection
	staff     *mongo.Collection
}

// NewMongoRepository creates a new MongoRepository on the given database.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		shipments: db.Collection(shipmentsCollection),
		riders:    db.Collection(ridersCollection),
		staff:     db.Collection(staffCollection),
	}
}

type shipmentDocument struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	SenderName        string             `bson:"senderName"`
	SenderPhoneNumber string             `bson:"senderPhoneNumber"`
	ReceiverName      string             `bson:"receiverName"`
	ReceiverAddress   string             `bson:"receiverAddress"`
	ReceiverPhone     string             `bson:"receiverPhone"`
	Name              string             `bson:"name"`
	Description       string             `bson:"description"`
	DeliveryType      string             `bson:"deliveryType"`
	OriginState       string             `bson:"originState"`
	DestinationState  string             `bson:"destinationState"`
	BranchName        string             `bson:"branchName"`
	WaybillNumber     string             `bson:"waybillNumber"`
	Status            string             `bson:"status"`
	TotalPrice        float64            `bson:"totalPrice"`
	AmountPaid        float64            `bson:"amountPaid"`
	PaymentMethod     string             `bson:"paymentMethod"`
	Insurance         float64            `bson:"insurance"`
	ItemCondition     string             `bson:"itemCondition"`
	Rider             primitive.ObjectID `bson:"rider"`
	CreatedBy         primitive.ObjectID `bson:"createdBy"`
	CreatedAt         time.Time          `bson:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt"`
}

type riderDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	PhoneNumber string             `bson:"phoneNumber"`
}

type staffDocument struct {
	ID    primitive.ObjectID `bson:"_id"`
	Name  string             `bson:"name"`
	Email string             `bson:"email"`
	Role  string             `bson:"role"`
}

// EnsureIndexes creates the unique waybill index and the listing index.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.shipments.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "waybillNumber", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("waybill_unique"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("created_at_desc"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create shipment indexes: %w", err)
	}
	return nil
}

// ValidID reports whether id is an ObjectID hex string.
func (r *MongoRepository) ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

// Create inserts the shipment and sets its ID.
func (r *MongoRepository) Create(ctx context.Context, s *domain.Shipment) error {
	doc, err := toDocument(s)
	if err != nil {
		return err
	}

	result, err := r.shipments.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", errDuplicateWaybill, s.WaybillNumber)
		}
		return fmt.Errorf("failed to insert shipment: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		s.ID = oid.Hex()
	}
	return nil
}

// FindByID returns the shipment with its rider and staff joined.
func (r *MongoRepository) FindByID(ctx context.Context, id string) (*domain.Shipment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// FindByWaybill returns the shipment with the given waybill number.
func (r *MongoRepository) FindByWaybill(ctx context.Context, waybillNumber string) (*domain.Shipment, error) {
	return r.findOne(ctx, bson.M{"waybillNumber": waybillNumber})
}

// List returns shipments newest first.
func (r *MongoRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Shipment, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if filter.Offset > 0 {
		opts.SetSkip(filter.Offset)
	}
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := r.shipments.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query shipments: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []shipmentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode shipments: %w", err)
	}

	return r.expand(ctx, docs)
}

// Update applies the patch with a single $set and returns the updated shipment.
func (r *MongoRepository) Update(ctx context.Context, id string, patch domain.ShipmentPatch, updatedAt time.Time) (*domain.Shipment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	set, err := patchToSet(patch)
	if err != nil {
		return nil, err
	}
	set["updatedAt"] = updatedAt

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc shipmentDocument
	err = r.shipments.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update shipment %s: %w", id, err)
	}

	shipments, err := r.expand(ctx, []shipmentDocument{doc})
	if err != nil {
		return nil, err
	}
	return &shipments[0], nil
}

// Delete removes the shipment.
func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}

	result, err := r.shipments.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete shipment %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Ping checks the connection through the shipments collection's database.
func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.shipments.Database().Client().Ping(ctx, nil)
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*domain.Shipment, error) {
	var doc shipmentDocument
	if err := r.shipments.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find shipment: %w", err)
	}

	shipments, err := r.expand(ctx, []shipmentDocument{doc})
	if err != nil {
		return nil, err
	}
	return &shipments[0], nil
}

// expand converts documents and joins riders and staff with one query per collection.
func (r *MongoRepository) expand(ctx context.Context, docs []shipmentDocument) ([]domain.Shipment, error) {
	if len(docs) == 0 {
		return []domain.Shipment{}, nil
	}

	riderIDs := make([]primitive.ObjectID, 0, len(docs))
	staffIDs := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		if !d.Rider.IsZero() {
			riderIDs = append(riderIDs, d.Rider)
		}
		if !d.CreatedBy.IsZero() {
			staffIDs = append(staffIDs, d.CreatedBy)
		}
	}

	riders := make(map[primitive.ObjectID]domain.Rider)
	if len(riderIDs) > 0 {
		var found []riderDocument
		if err := findAll(ctx, r.riders, riderIDs, &found); err != nil {
			return nil, fmt.Errorf("failed to load riders: %w", err)
		}
		for _, rd := range found {
			riders[rd.ID] = domain.Rider{ID: rd.ID.Hex(), Name: rd.Name, PhoneNumber: rd.PhoneNumber}
		}
	}

	staff := make(map[primitive.ObjectID]domain.Staff)
	if len(staffIDs) > 0 {
		var found []staffDocument
		if err := findAll(ctx, r.staff, staffIDs, &found); err != nil {
			return nil, fmt.Errorf("failed to load staff: %w", err)
		}
		for _, sd := range found {
			staff[sd.ID] = domain.Staff{ID: sd.ID.Hex(), Name: sd.Name, Email: sd.Email, Role: sd.Role}
		}
	}

	result := make([]domain.Shipment, 0, len(docs))
	for _, d := range docs {
		s := fromDocument(d)
		if rider, ok := riders[d.Rider]; ok {
			s.Rider = &rider
		}
		if member, ok := staff[d.CreatedBy]; ok {
			s.CreatedBy = &member
		}
		result = append(result, s)
	}
	return result, nil
}

func findAll(ctx context.Context, coll *mongo.Collection, ids []primitive.ObjectID, out interface{}) error {
	cursor, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

func toDocument(s *domain.Shipment) (*shipmentDocument, error) {
	rider, err := primitive.ObjectIDFromHex(s.RiderID)
	if err != nil {
		return nil, fmt.Errorf("invalid rider id %q: %w", s.RiderID, err)
	}
	createdBy, err := primitive.ObjectIDFromHex(s.CreatedByID)
	if err != nil {
		return nil, fmt.Errorf("invalid staff id %q: %w", s.CreatedByID, err)
	}

	return &shipmentDocument{
		SenderName:        s.SenderName,
		SenderPhoneNumber: s.SenderPhoneNumber,
		ReceiverName:      s.ReceiverName,
		ReceiverAddress:   s.ReceiverAddress,
		ReceiverPhone:     s.ReceiverPhone,
		Name:              s.Name,
		Description:       s.Description,
		DeliveryType:      s.DeliveryType,
		OriginState:       s.OriginState,
		DestinationState:  s.DestinationState,
		BranchName:        s.BranchName,
		WaybillNumber:     s.WaybillNumber,
		Status:            string(s.Status),
		TotalPrice:        s.TotalPrice,
		AmountPaid:        s.AmountPaid,
		PaymentMethod:     s.PaymentMethod,
		Insurance:         s.Insurance,
		ItemCondition:     string(s.ItemCondition),
		Rider:             rider,
		CreatedBy:         createdBy,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}, nil
}

func fromDocument(d shipmentDocument) domain.Shipment {
	return domain.Shipment{
		ID:                d.ID.Hex(),
		SenderName:        d.SenderName,
		SenderPhoneNumber: d.SenderPhoneNumber,
		ReceiverName:      d.ReceiverName,
		ReceiverAddress:   d.ReceiverAddress,
		ReceiverPhone:     d.ReceiverPhone,
		Name:              d.Name,
		Description:       d.Description,
		DeliveryType:      d.DeliveryType,
		OriginState:       d.OriginState,
		DestinationState:  d.DestinationState,
		BranchName:        d.BranchName,
		WaybillNumber:     d.WaybillNumber,
		Status:            domain.ShipmentStatus(d.Status),
		TotalPrice:        d.TotalPrice,
		AmountPaid:        d.AmountPaid,
		PaymentMethod:     d.PaymentMethod,
		Insurance:         d.Insurance,
		ItemCondition:     domain.ItemCondition(d.ItemCondition),
		RiderID:           hexOrEmpty(d.Rider),
		CreatedByID:       hexOrEmpty(d.CreatedBy),
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

func patchToSet(p domain.ShipmentPatch) (bson.M, error) {
	set := bson.M{}
	if p.Status != nil {
		set["status"] = string(*p.Status)
	}
	if p.Insurance != nil {
		set["insurance"] = *p.Insurance
	}
	if p.ItemCondition != nil {
		set["itemCondition"] = string(*p.ItemCondition)
	}
	if p.RiderID != nil {
		oid, err := primitive.ObjectIDFromHex(*p.RiderID)
		if err != nil {
			return nil, fmt.Errorf("invalid rider id %q: %w", *p.RiderID, err)
		}
		set["rider"] = oid
	}
	if p.StaffID != nil {
		oid, err := primitive.ObjectIDFromHex(*p.StaffID)
		if err != nil {
			return nil, fmt.Errorf("invalid staff id %q: %w", *p.StaffID, err)
		}
		set["createdBy"] = oid
	}
	return set, nil
}

func hexOrEmpty(oid primitive.ObjectID) string {
	if oid.IsZero() {
		return ""
	}
	return oid.Hex()
}
