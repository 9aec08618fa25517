package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"modernblog/internal/service"
)

// allowedImageTypes - форматы обложек
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type postPatch struct {
	Title      *string   `json:"title"`
	Content    *string   `json:"content"`
	Status     *string   `json:"status"`
	Categories []string  `json:"categories"`
	Tags       *[]string `json:"tags"`
}

// parseTags разбирает строку тегов из формы: клиент шлёт JSON-массив.
// Нечитаемое значение молча превращается в пустой список.
func parseTags(value string) []string {
	if value == "" {
		return []string{}
	}

	var tags []string
	if err := json.Unmarshal([]byte(value), &tags); err != nil {
		return []string{}
	}

	return tags
}

func formValues(r *http.Request, key string) ([]string, bool) {
	if r.MultipartForm == nil {
		return nil, false
	}
	if values, ok := r.MultipartForm.Value[key]; ok {
		return values, true
	}
	// клиенты на FormData часто шлют массив с суффиксом []
	values, ok := r.MultipartForm.Value[key+"[]"]
	return values, ok
}

// extractCover достаёт файл обложки из multipart-формы, если он есть
func (h *Handlers) extractCover(r *http.Request) (*service.CoverUpload, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, fmt.Errorf("не удалось получить файл")
	}

	contentType := header.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		file.Close()
		return nil, fmt.Errorf("неподдерживаемый тип файла, разрешены: JPEG, PNG, GIF, WebP")
	}

	return &service.CoverUpload{
		FileName: header.Filename,
		File:     file,
		Size:     header.Size,
	}, nil
}

func (h *Handlers) isBodyTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr) || strings.Contains(err.Error(), "request body too large")
}

// parsePostPatch читает поля поста из multipart-формы или JSON-тела.
// Отсутствующие поля остаются nil - обновление частичное.
func (h *Handlers) parsePostPatch(w http.ResponseWriter, r *http.Request) (*postPatch, *service.CoverUpload, error) {
	patch := &postPatch{}

	// жёсткий предел на размер тела: без него лимит ParseMultipartForm
	// ограничивает только буфер в памяти, остальное уходит во временные файлы
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
			if h.isBodyTooLarge(err) {
				return nil, nil, fmt.Errorf("файл слишком большой (макс. %d MB)",
					h.Cfg.MaxUploadSize/(1024*1024))
			}
			return nil, nil, fmt.Errorf("ошибка при обработке формы")
		}

		if values, ok := formValues(r, "title"); ok && len(values) > 0 {
			patch.Title = &values[0]
		}
		if values, ok := formValues(r, "content"); ok && len(values) > 0 {
			patch.Content = &values[0]
		}
		if values, ok := formValues(r, "status"); ok && len(values) > 0 {
			patch.Status = &values[0]
		}
		if values, ok := formValues(r, "categories"); ok {
			patch.Categories = values
		}
		if values, ok := formValues(r, "tags"); ok && len(values) > 0 {
			tags := parseTags(values[0])
			patch.Tags = &tags
		}

		cover, err := h.extractCover(r)
		if err != nil {
			return nil, nil, err
		}

		return patch, cover, nil
	}

	if err := json.NewDecoder(r.Body).Decode(patch); err != nil {
		if h.isBodyTooLarge(err) {
			return nil, nil, fmt.Errorf("файл слишком большой (макс. %d MB)",
				h.Cfg.MaxUploadSize/(1024*1024))
		}
		return nil, nil, fmt.Errorf("неверный формат запроса")
	}

	return patch, nil, nil
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (h *Handlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	filter := service.ListPostsFilter{
		Search:       query.Get("search"),
		CategorySlug: query.Get("category"),
		Tag:          query.Get("tag"),
		AuthorID:     query.Get("author"),
		Status:       query.Get("status"),
		Page:         page,
		Limit:        limit,
	}

	result, err := h.PostService.ListPosts(r.Context(), filter)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, result, http.StatusOK)
}

func (h *Handlers) GetMyPosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Требуется авторизация", http.StatusUnauthorized)
		return
	}

	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	result, err := h.PostService.GetMyPosts(r.Context(), userID, page, limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, result, http.StatusOK)
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	post, err := h.PostService.GetPost(r.Context(), postID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, post, http.StatusOK)
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	authorID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Требуется авторизация", http.StatusUnauthorized)
		return
	}

	patch, cover, err := h.parsePostPatch(w, r)
	if err != nil {
		WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	serviceReq := service.CreatePostRequest{
		AuthorID:    authorID,
		Title:       strValue(patch.Title),
		Content:     strValue(patch.Content),
		Status:      strValue(patch.Status),
		CategoryIDs: patch.Categories,
		Cover:       cover,
	}
	if patch.Tags != nil {
		serviceReq.Tags = *patch.Tags
	}

	post, err := h.PostService.CreatePost(r.Context(), serviceReq)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, post, http.StatusCreated)
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Требуется авторизация", http.StatusUnauthorized)
		return
	}

	postID := mux.Vars(r)["id"]

	patch, cover, err := h.parsePostPatch(w, r)
	if err != nil {
		WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	serviceReq := service.UpdatePostRequest{
		PostID:      postID,
		RequesterID: requesterID,
		Title:       patch.Title,
		Content:     patch.Content,
		Status:      patch.Status,
		CategoryIDs: patch.Categories,
		Tags:        patch.Tags,
		Cover:       cover,
	}

	post, err := h.PostService.UpdatePost(r.Context(), serviceReq)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, post, http.StatusOK)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Требуется авторизация", http.StatusUnauthorized)
		return
	}

	postID := mux.Vars(r)["id"]

	if err := h.PostService.DeletePost(r.Context(), postID, requesterID); err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, MessageResponse{Message: "Пост удален"}, http.StatusOK)
}

func (h *Handlers) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Требуется авторизация", http.StatusUnauthorized)
		return
	}

	postID := mux.Vars(r)["id"]

	likesCount, liked, err := h.PostService.ToggleLike(r.Context(), postID, userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"likesCount": likesCount,
		"liked":      liked,
	}, http.StatusOK)
}

func (h *Handlers) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Требуется авторизация", http.StatusUnauthorized)
		return
	}

	postID := mux.Vars(r)["id"]

	bookmarks, bookmarked, err := h.PostService.ToggleBookmark(r.Context(), userID, postID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"bookmarks":  bookmarks,
		"bookmarked": bookmarked,
	}, http.StatusOK)
}
