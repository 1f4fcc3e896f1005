package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/traymate/backend/internal/core/domain"
)

const collectionResidents = "residents"

type ResidentRepository struct {
	col *mongo.Collection
}

func NewResidentRepository(db *mongo.Database) *ResidentRepository {
	return &ResidentRepository{col: db.Collection(collectionResidents)}
}

type mongoResident struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	FirstName         string             `bson:"first_name"`
	MiddleName        string             `bson:"middle_name,omitempty"`
	LastName          string             `bson:"last_name"`
	DOB               string             `bson:"dob,omitempty"`
	Gender            string             `bson:"gender,omitempty"`
	Phone             string             `bson:"phone,omitempty"`
	EmergencyContact  string             `bson:"emergency_contact,omitempty"`
	EmergencyPhone    string             `bson:"emergency_phone,omitempty"`
	Doctor            string             `bson:"doctor,omitempty"`
	DoctorPhone       string             `bson:"doctor_phone,omitempty"`
	MedicalConditions string             `bson:"medical_conditions,omitempty"`
	FoodAllergies     string             `bson:"food_allergies,omitempty"`
	Medications       string             `bson:"medications,omitempty"`
	RoomNumber        string             `bson:"room_number,omitempty"`
	CaregiverID       string             `bson:"caregiver_id,omitempty"`
	CreatedAt         time.Time          `bson:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at"`
}

func toMongoResident(r *domain.Resident) mongoResident {
	return mongoResident{
		FirstName:         r.FirstName,
		MiddleName:        r.MiddleName,
		LastName:          r.LastName,
		DOB:               r.DOB,
		Gender:            string(r.Gender),
		Phone:             r.Phone,
		EmergencyContact:  r.EmergencyContact,
		EmergencyPhone:    r.EmergencyPhone,
		Doctor:            r.Doctor,
		DoctorPhone:       r.DoctorPhone,
		MedicalConditions: r.MedicalConditions,
		FoodAllergies:     r.FoodAllergies,
		Medications:       r.Medications,
		RoomNumber:        r.RoomNumber,
		CaregiverID:       r.CaregiverID,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func (m *mongoResident) toDomain() *domain.Resident {
	return &domain.Resident{
		ID:                m.ID.Hex(),
		FirstName:         m.FirstName,
		MiddleName:        m.MiddleName,
		LastName:          m.LastName,
		DOB:               m.DOB,
		Gender:            domain.Gender(m.Gender),
		Phone:             m.Phone,
		EmergencyContact:  m.EmergencyContact,
		EmergencyPhone:    m.EmergencyPhone,
		Doctor:            m.Doctor,
		DoctorPhone:       m.DoctorPhone,
		MedicalConditions: m.MedicalConditions,
		FoodAllergies:     m.FoodAllergies,
		Medications:       m.Medications,
		RoomNumber:        m.RoomNumber,
		CaregiverID:       m.CaregiverID,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// Create inserts a new resident document and sets r.ID.
func (r *ResidentRepository) Create(ctx context.Context, res *domain.Resident) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	out, err := r.col.InsertOne(ctx, toMongoResident(res))
	if err != nil {
		return fmt.Errorf("insert resident: %w", err)
	}
	if oid, ok := out.InsertedID.(primitive.ObjectID); ok {
		res.ID = oid.Hex()
	}
	return nil
}

func (r *ResidentRepository) FindByID(ctx context.Context, id string) (*domain.Resident, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrResidentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoResident
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrResidentNotFound
		}
		return nil, err
	}
	return m.toDomain(), nil
}

func (r *ResidentRepository) List(ctx context.Context) ([]*domain.Resident, error) {
	return r.find(ctx, bson.M{})
}

func (r *ResidentRepository) ListByCaregiver(ctx context.Context, caregiverID string) ([]*domain.Resident, error) {
	return r.find(ctx, bson.M{"caregiver_id": caregiverID})
}

// Update replaces the editable fields of an existing resident.
func (r *ResidentRepository) Update(ctx context.Context, res *domain.Resident) error {
	oid, err := primitive.ObjectIDFromHex(res.ID)
	if err != nil {
		return domain.ErrResidentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoResident(res)
	update := bson.M{"$set": bson.M{
		"first_name":         doc.FirstName,
		"last_name":          doc.LastName,
		"room_number":        doc.RoomNumber,
		"food_allergies":     doc.FoodAllergies,
		"medical_conditions": doc.MedicalConditions,
		"updated_at":         doc.UpdatedAt,
	}}
	out, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update resident: %w", err)
	}
	if out.MatchedCount == 0 {
		return domain.ErrResidentNotFound
	}
	return nil
}

func (r *ResidentRepository) SetCaregiver(ctx context.Context, residentID, caregiverID string) error {
	oid, err := primitive.ObjectIDFromHex(residentID)
	if err != nil {
		return domain.ErrResidentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"caregiver_id": caregiverID, "updated_at": time.Now().UTC()}}
	if caregiverID == "" {
		update = bson.M{
			"$unset": bson.M{"caregiver_id": ""},
			"$set":   bson.M{"updated_at": time.Now().UTC()},
		}
	}
	out, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("set caregiver: %w", err)
	}
	if out.MatchedCount == 0 {
		return domain.ErrResidentNotFound
	}
	return nil
}

// UnassignCaregiver removes caregiverID from every resident that references it.
func (r *ResidentRepository) UnassignCaregiver(ctx context.Context, caregiverID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	out, err := r.col.UpdateMany(ctx,
		bson.M{"caregiver_id": caregiverID},
		bson.M{
			"$unset": bson.M{"caregiver_id": ""},
			"$set":   bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return 0, fmt.Errorf("unassign caregiver: %w", err)
	}
	return out.ModifiedCount, nil
}

func (r *ResidentRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrResidentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	out, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete resident: %w", err)
	}
	if out.DeletedCount == 0 {
		return domain.ErrResidentNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the residents collection.
func (r *ResidentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "caregiver_id", Value: 1}}},
		{Keys: bson.D{{Key: "last_name", Value: 1}, {Key: "first_name", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *ResidentRepository) find(ctx context.Context, filter bson.M) ([]*domain.Resident, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "last_name", Value: 1}, {Key: "first_name", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find residents: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoResident
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode residents: %w", err)
	}
	out := make([]*domain.Resident, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}
