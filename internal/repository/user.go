package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/marketplace/internal/database"
	"github.com/forgo/marketplace/internal/model"
)

// UserRepository handles user data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// userFields renders the fields of a new user as a SET clause. Customers get
// provider_profile = NONE.
func userFields(u *model.User) (string, map[string]interface{}) {
	set := `user_id = $user_id,
			role = $role,
			name = $name,
			email = $email,
			avatar_url = $avatar_url,
			tel_number = $tel_number,
			address = $address`

	vars := map[string]interface{}{
		"user_id":    u.UserID,
		"role":       string(u.Role()),
		"name":       u.Name,
		"email":      u.Email,
		"avatar_url": u.AvatarURL,
		"tel_number": u.TelNumber,
		"address":    u.Address,
	}

	if p := u.ProviderProfile(); p != nil {
		set += ",\n\t\t\tprovider_profile = $provider_profile"
		vars["provider_profile"] = profileToMap(p)
	} else {
		set += ",\n\t\t\tprovider_profile = NONE"
	}
	return set, vars
}

// Create inserts a user and fills in its id and timestamps
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	set, vars := userFields(user)
	query := `
		CREATE user SET
			` + set + `,
			last_login_at = time::now(),
			created_on = time::now(),
			updated_on = time::now()
	`

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return fmt.Errorf("%w: user_id already exists", database.ErrDuplicate)
		}
		return err
	}

	records := firstStatementRecords(result)
	if len(records) == 0 {
		return errors.New("no result returned")
	}
	created, err := parseUser(records[0])
	if err != nil {
		return err
	}
	*user = *created
	return nil
}

// GetByID retrieves a user by record id; nil when it does not exist
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	key, ok := recordKey("user", id)
	if !ok {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT * FROM type::thing("user", $key)`, map[string]interface{}{"key": key})
}

// GetByUserID retrieves a user by external (social) id; nil when it does not exist
func (r *UserRepository) GetByUserID(ctx context.Context, userID string) (*model.User, error) {
	return r.getOne(ctx, `SELECT * FROM user WHERE user_id = $user_id LIMIT 1`, map[string]interface{}{"user_id": userID})
}

// List returns all users in creation order
func (r *UserRepository) List(ctx context.Context) ([]*model.User, error) {
	result, err := r.db.Query(ctx, `SELECT * FROM user ORDER BY created_on ASC`, nil)
	if err != nil {
		return nil, err
	}

	records := firstStatementRecords(result)
	users := make([]*model.User, 0, len(records))
	for _, rec := range records {
		u, err := parseUser(rec)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// Update writes only the fields present in patch; nil when the user does not
// exist or, for a guarded persona change, no longer has the required role
func (r *UserRepository) Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	key, ok := recordKey("user", id)
	if !ok {
		return nil, nil
	}

	query := `UPDATE user SET updated_on = time::now()`
	vars := map[string]interface{}{
		"key": key,
	}

	if patch.Name != nil {
		query += ", name = $name"
		vars["name"] = *patch.Name
	}
	if patch.Email != nil {
		query += ", email = $email"
		vars["email"] = *patch.Email
	}
	if patch.AvatarURL != nil {
		query += ", avatar_url = $avatar_url"
		vars["avatar_url"] = *patch.AvatarURL
	}
	if patch.TelNumber != nil {
		query += ", tel_number = $tel_number"
		vars["tel_number"] = *patch.TelNumber
	}
	if patch.Address != nil {
		query += ", address = $address"
		vars["address"] = *patch.Address
	}

	where := ` WHERE id = type::thing("user", $key)`
	if c := patch.Persona; c != nil {
		query += ", role = $role"
		vars["role"] = string(c.Role)
		switch {
		case c.Role != model.RoleProvider:
			query += ", provider_profile = NONE"
		case c.Profile != nil:
			query += ", provider_profile = $provider_profile"
			vars["provider_profile"] = profileToMap(c.Profile)
		default:
			query += ", provider_profile = provider_profile ?? $empty_profile"
			vars["empty_profile"] = profileToMap(&model.ProviderProfile{})
		}
		if c.RequireRole != "" {
			where += ` AND role = $require_role`
			vars["require_role"] = string(c.RequireRole)
		}
	}
	query += where + ` RETURN AFTER`

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	records := firstStatementRecords(result)
	if len(records) == 0 {
		return nil, nil
	}
	return parseUser(records[0])
}

// TouchLogin records a successful login and refreshes the social profile fields
func (r *UserRepository) TouchLogin(ctx context.Context, id, name, avatarURL string) (*model.User, error) {
	key, ok := recordKey("user", id)
	if !ok {
		return nil, nil
	}

	query := `
		UPDATE user SET
			name = $name,
			avatar_url = $avatar_url,
			last_login_at = time::now(),
			updated_on = time::now()
		WHERE id = type::thing("user", $key)
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"key":        key,
		"name":       name,
		"avatar_url": avatarURL,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	records := firstStatementRecords(result)
	if len(records) == 0 {
		return nil, nil
	}
	return parseUser(records[0])
}

// DeleteCascade removes a user together with every service and session it
// owns, in one transaction. Users is zero when the user did not exist.
func (r *UserRepository) DeleteCascade(ctx context.Context, id string) (*model.CascadeResult, error) {
	key, ok := recordKey("user", id)
	if !ok {
		return &model.CascadeResult{}, nil
	}
	vars := map[string]interface{}{"key": key}

	batch := database.NewAtomicBatch().
		Add(`DELETE service WHERE customer = type::thing("user", $key) RETURN BEFORE`, vars).
		Add(`DELETE session WHERE user = type::thing("user", $key) RETURN BEFORE`, vars).
		Add(`DELETE user WHERE id = type::thing("user", $key) RETURN BEFORE`, vars)

	result, err := batch.Execute(ctx, r.db)
	if err != nil {
		return nil, err
	}
	return cascadeResult(result), nil
}

// DeleteAllCascade removes every user, service and session in one transaction
func (r *UserRepository) DeleteAllCascade(ctx context.Context) (*model.CascadeResult, error) {
	batch := database.NewAtomicBatch().
		Add(`DELETE service RETURN BEFORE`, nil).
		Add(`DELETE session RETURN BEFORE`, nil).
		Add(`DELETE user RETURN BEFORE`, nil)

	result, err := batch.Execute(ctx, r.db)
	if err != nil {
		return nil, err
	}
	return cascadeResult(result), nil
}

func cascadeResult(result []interface{}) *model.CascadeResult {
	return &model.CascadeResult{
		Users:    countTableRecords(result, "user"),
		Services: countTableRecords(result, "service"),
		Sessions: countTableRecords(result, "session"),
	}
}

func (r *UserRepository) getOne(ctx context.Context, query string, vars map[string]interface{}) (*model.User, error) {
	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	records := firstStatementRecords(result)
	if len(records) == 0 {
		return nil, nil
	}
	return parseUser(records[0])
}

func parseUser(data map[string]interface{}) (*model.User, error) {
	persona, err := model.NewPersona(model.Role(getString(data, "role")), parseProfile(data["provider_profile"]))
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", convertSurrealID(data["id"]), err)
	}

	return &model.User{
		ID:          convertSurrealID(data["id"]),
		UserID:      getString(data, "user_id"),
		Name:        getString(data, "name"),
		Email:       getString(data, "email"),
		AvatarURL:   getString(data, "avatar_url"),
		TelNumber:   getString(data, "tel_number"),
		Address:     getString(data, "address"),
		Persona:     persona,
		LastLoginAt: getTime(data, "last_login_at"),
		CreatedAt:   getTime(data, "created_on"),
		UpdatedAt:   getTime(data, "updated_on"),
	}, nil
}

func parseProfile(raw interface{}) *model.ProviderProfile {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil
	}
	skills := getStringSlice(m, "skills")
	p := &model.ProviderProfile{
		Title:       getString(m, "title"),
		Description: getString(m, "description"),
		Skills:      make([]model.Tag, len(skills)),
	}
	for i, s := range skills {
		p.Skills[i] = model.Tag(s)
	}
	return p
}

func profileToMap(p *model.ProviderProfile) map[string]interface{} {
	skills := make([]string, len(p.Skills))
	for i, s := range p.Skills {
		skills[i] = string(s)
	}
	return map[string]interface{}{
		"title":       p.Title,
		"skills":      skills,
		"description": p.Description,
	}
}
