package httpapi

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/avolkov/roomly/internal/common"
	"github.com/avolkov/roomly/internal/server/models"
	"github.com/avolkov/roomly/internal/server/services"
	"github.com/shopspring/decimal"
)

// multipart bodies are parsed with this much memory before spilling to disk
const maxMultipartMemory = 32 << 20

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
	Avatar   string `json:"avatar"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type userResponse struct {
	User models.PublicUser `json:"user"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, r, common.ErrorBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		a.writeError(w, r, common.ErrorBadRequest)
		return
	}

	user, pair, err := a.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	a.setTokenPair(w, pair)
	writeJSON(w, http.StatusOK, userResponse{User: user.Public()})
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, r, common.ErrorBadRequest)
		return
	}
	if req.Email == "" || req.Phone == "" || req.Password == "" {
		a.writeError(w, r, common.ErrorBadRequest)
		return
	}

	user, pair, err := a.sessions.Register(r.Context(), services.RegisterParams{
		Email:    req.Email,
		Phone:    req.Phone,
		FullName: req.FullName,
		Password: req.Password,
		Avatar:   req.Avatar,
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	a.setTokenPair(w, pair)
	writeJSON(w, http.StatusCreated, userResponse{User: user.Public()})
}

// handleRefresh exchanges the refresh token cookie for a fresh access token
// cookie. The refresh cookie itself is not rotated.
func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(refreshTokenCookie)
	if err != nil {
		a.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	access, err := a.sessions.Refresh(r.Context(), c.Value)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	a.setAccessToken(w, access)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// handleLogout clears both auth cookies. The tokens themselves stay valid
// until expiry; logout only removes them from the browser.
func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	a.clearTokenPair(w)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, _ := principalFrom(r.Context())

	user, err := a.users.GetByID(r.Context(), claims.Subject)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: user.Public()})
}

type checkPhoneRequest struct {
	Phone string `json:"phone"`
}

type checkPhoneResponse struct {
	Exists bool `json:"exists"`
}

func (a *API) handleCheckPhone(w http.ResponseWriter, r *http.Request) {
	var req checkPhoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Phone == "" {
		a.writeError(w, r, common.ErrorBadRequest)
		return
	}

	exists, err := a.users.CheckPhoneExists(r.Context(), req.Phone)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, checkPhoneResponse{Exists: exists})
}

// handleUpdateProfile accepts multipart form data: optional fullName and
// phone fields plus an optional avatar file part.
func (a *API) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, _ := principalFrom(r.Context())

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		a.writeError(w, r, common.ErrorBadRequest)
		return
	}

	params := services.UpdateProfileParams{
		FullName: r.FormValue("fullName"),
		Phone:    r.FormValue("phone"),
	}

	if file, header, err := r.FormFile("avatar"); err == nil {
		upload, err := readUpload(file, header)
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		params.Avatar = &upload
	}

	user, err := a.users.UpdateProfile(r.Context(), claims.Subject, params)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: user.Public()})
}

type mediaResponse struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	MediaType string `json:"mediaType"`
	SortOrder int    `json:"sortOrder"`
	AltText   string `json:"altText"`
}

type postResponse struct {
	ID                string            `json:"id"`
	Type              string            `json:"type"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	Price             string            `json:"price"`
	PriceType         string            `json:"priceType"`
	Area              float64           `json:"area"`
	Address           string            `json:"address"`
	RoomType          string            `json:"roomType"`
	GenderRequirement string            `json:"genderRequirement"`
	MaxOccupants      int               `json:"maxOccupants"`
	AvailableFrom     *time.Time        `json:"availableFrom,omitempty"`
	ContactName       string            `json:"contactName"`
	ContactPhone      string            `json:"contactPhone"`
	Status            string            `json:"status"`
	CreatedAt         time.Time         `json:"createdAt"`
	Media             []mediaResponse   `json:"media"`
	Author            models.PublicUser `json:"author"`
}

func toPostResponse(p *models.Post) postResponse {
	media := make([]mediaResponse, 0, len(p.Media))
	for _, m := range p.Media {
		media = append(media, mediaResponse{
			ID:        m.ID,
			URL:       m.MediaURL,
			MediaType: m.MediaType,
			SortOrder: m.SortOrder,
			AltText:   m.AltText,
		})
	}
	return postResponse{
		ID:                p.ID,
		Type:              string(p.Type),
		Title:             p.Title,
		Description:       p.Description,
		Price:             p.Price.String(),
		PriceType:         string(p.PriceType),
		Area:              p.Area,
		Address:           p.Address,
		RoomType:          string(p.RoomType),
		GenderRequirement: string(p.GenderRequirement),
		MaxOccupants:      p.MaxOccupants,
		AvailableFrom:     p.AvailableFrom,
		ContactName:       p.ContactName,
		ContactPhone:      p.ContactPhone,
		Status:            string(p.Status),
		CreatedAt:         p.CreatedAt,
		Media:             media,
		Author:            p.Author,
	}
}

// handleCreatePost accepts multipart form data with listing fields and up to
// five "media" file parts.
func (a *API) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	claims, _ := principalFrom(r.Context())

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		a.writeError(w, r, common.ErrorBadRequest)
		return
	}

	params, err := parseCreatePostForm(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	post, err := a.posts.CreatePost(r.Context(), claims.Subject, *params)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPostResponse(post))
}

func (a *API) handleListOwnPosts(w http.ResponseWriter, r *http.Request) {
	claims, _ := principalFrom(r.Context())

	result, err := a.posts.ListByUser(r.Context(), claims.Subject)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	out := make([]postResponse, 0, len(result))
	for _, p := range result {
		out = append(out, toPostResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func parseCreatePostForm(r *http.Request) (*services.CreatePostParams, error) {
	title := r.FormValue("title")
	if title == "" {
		return nil, common.ErrorBadRequest
	}

	price, err := decimal.NewFromString(r.FormValue("price"))
	if err != nil {
		return nil, common.ErrorBadRequest
	}

	params := &services.CreatePostParams{
		Type:              models.PostType(r.FormValue("type")),
		Title:             title,
		Description:       r.FormValue("description"),
		Price:             price,
		PriceType:         models.PriceType(r.FormValue("priceType")),
		Address:           r.FormValue("address"),
		RoomType:          models.RoomType(r.FormValue("roomType")),
		GenderRequirement: models.GenderRequirement(r.FormValue("genderRequirement")),
		ContactName:       r.FormValue("contactName"),
		ContactPhone:      r.FormValue("contactPhone"),
	}

	if v := r.FormValue("area"); v != "" {
		area, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, common.ErrorBadRequest
		}
		params.Area = area
	}
	if v := r.FormValue("maxOccupants"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, common.ErrorBadRequest
		}
		params.MaxOccupants = n
	}
	if v := r.FormValue("availableFrom"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, common.ErrorBadRequest
		}
		params.AvailableFrom = &d
	}

	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["media"] {
			file, err := header.Open()
			if err != nil {
				return nil, common.ErrorBadRequest
			}
			upload, err := readUpload(file, header)
			if err != nil {
				return nil, err
			}
			params.Media = append(params.Media, upload)
		}
	}

	return params, nil
}

func readUpload(file multipart.File, header *multipart.FileHeader) (services.Upload, error) {
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return services.Upload{}, common.ErrorBadRequest
	}
	return services.Upload{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
	}, nil
}
