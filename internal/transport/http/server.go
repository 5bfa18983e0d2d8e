package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"travkings/internal/domain/models"
	"travkings/internal/lib/logger/sl"
	"travkings/internal/middleware"
	"travkings/internal/repository"
	"travkings/internal/storage"
	"travkings/internal/transport/http/dto"
	"travkings/internal/transport/http/dto/request"
	"travkings/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	_ "travkings/docs"
)

type PackageService interface {
	CreatePackage(ctx context.Context, req dto.CreatePackageRequest, thumbnail *multipart.FileHeader) (*models.TravelPackage, error)
	UpdatePackage(ctx context.Context, id uuid.UUID, req dto.UpdatePackageRequest, thumbnail *multipart.FileHeader) (*models.TravelPackage, error)
	GetPackageByID(ctx context.Context, id uuid.UUID) (*models.TravelPackage, error)
	GetPackageBySlug(ctx context.Context, slug string) (*models.TravelPackage, error)
	ListPackages(ctx context.Context, filter repository.PackageFilter) ([]models.TravelPackage, error)
	DeletePackage(ctx context.Context, id uuid.UUID) error
	CountPackages(ctx context.Context) (int, error)
}

type BlogService interface {
	CreateBlog(ctx context.Context, req dto.CreateBlogRequest, thumbnail *multipart.FileHeader) (*models.Blog, error)
	UpdateBlog(ctx context.Context, id uuid.UUID, req dto.UpdateBlogRequest, thumbnail *multipart.FileHeader) (*models.Blog, error)
	GetBlogByID(ctx context.Context, id uuid.UUID) (*models.Blog, error)
	GetBlogBySlug(ctx context.Context, slug string) (*models.Blog, error)
	ListBlogs(ctx context.Context, filter repository.BlogFilter) ([]models.Blog, error)
	IncrementViews(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteBlog(ctx context.Context, id uuid.UUID) error
	CountBlogs(ctx context.Context) (int, error)
}

type QueryService interface {
	CreateQuery(ctx context.Context, req dto.CreateQueryRequest) (*models.Query, error)
	GetQueryByID(ctx context.Context, id uuid.UUID) (*models.Query, error)
	ListQueries(ctx context.Context, filter repository.QueryFilter) ([]models.Query, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.QueryStatus) (*models.Query, error)
	DeleteQuery(ctx context.Context, id uuid.UUID) error
	CountQueries(ctx context.Context, status models.QueryStatus) (int, error)
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, models.Admin, error)
}

type Routers struct {
	log            *slog.Logger
	PackageService PackageService
	BlogService    BlogService
	QueryService   QueryService
	AuthService    AuthService
}

func NewRouter(log *slog.Logger, packageService PackageService, blogService BlogService, queryService QueryService, authService AuthService) *Routers {
	return &Routers{
		log:            log,
		PackageService: packageService,
		BlogService:    blogService,
		QueryService:   queryService,
		AuthService:    authService,
	}
}

var ErrInvalidUUID = errors.New("not valid UUID")

// Login godoc
// @Summary Вход администратора
// @Description Проверяет логин и пароль, кладет сессионный токен в cookie и перенаправляет на /admin
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Данные для входа"
// @Success 303 "Перенаправление на /admin"
// @Failure 400 {object} response.ErrorResponse "Неверный формат запроса"
// @Failure 401 {object} response.ErrorResponse "Ошибка аутентификации"
// @Router /api/auth/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.LoginRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid login request", slog.String("username", req.Username))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	token, _, err := r.AuthService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	sess, _ := session.Get(middleware.SessionName, c)
	sess.Values[middleware.SessionTokenKey] = token
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		log.Error("failed to save session", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	// полная перезагрузка страницы, а не JSON-ответ
	return c.Redirect(http.StatusSeeOther, "/admin")
}

// Logout godoc
// @Summary Выход администратора
// @Tags auth
// @Success 303 "Перенаправление на /admin/login"
// @Router /api/auth/logout [post]
func (r *Routers) Logout(c echo.Context) error {
	sess, _ := session.Get(middleware.SessionName, c)
	delete(sess.Values, middleware.SessionTokenKey)
	sess.Options.MaxAge = -1
	_ = sess.Save(c.Request(), c.Response())

	return c.Redirect(http.StatusSeeOther, "/admin/login")
}

// CreatePackage godoc
// @Summary Создать туристический пакет
// @Description Принимает multipart-форму: JSON-поле data и файл thumbnail
// @Tags packages
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} response.Response{data=models.TravelPackage}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/packages [post]
func (r *Routers) CreatePackage(c echo.Context) error {
	const op = "http.routers.CreatePackage"

	log := r.log.With(slog.String("op", op))

	var req dto.CreatePackageRequest
	thumbnail, err := r.bindContentForm(c, &req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	pkg, err := r.PackageService.CreatePackage(c.Request().Context(), req, thumbnail)
	if err != nil {
		return r.writeError(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(pkg))
}

// ListPackages godoc
// @Summary Список пакетов
// @Description Публичный список; по умолчанию только активные пакеты
// @Tags packages
// @Produce json
// @Param isActive query bool false "Фильтр по активности (по умолчанию true)"
// @Param isFeatured query bool false "Только избранные"
// @Param category query string false "Категория"
// @Param destination query string false "Подстрока направления"
// @Param limit query int false "Размер страницы"
// @Param skip query int false "Смещение"
// @Success 200 {object} response.Response{data=dto.PackageListResponse}
// @Router /api/packages [get]
func (r *Routers) ListPackages(c echo.Context) error {
	const op = "http.routers.ListPackages"

	log := r.log.With(slog.String("op", op))

	filter := repository.PackageFilter{
		IsActive:    parseBoolParam(c.QueryParam("isActive"), boolPtr(true)),
		IsFeatured:  parseBoolParam(c.QueryParam("isFeatured"), nil),
		Category:    c.QueryParam("category"),
		Destination: c.QueryParam("destination"),
		Limit:       parseIntParam(c.QueryParam("limit"), 0),
		Skip:        parseIntParam(c.QueryParam("skip"), 0),
	}

	packages, err := r.PackageService.ListPackages(c.Request().Context(), filter)
	if err != nil {
		return r.writeError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.PackageListResponse{
		Packages: packages,
		Total:    len(packages),
		Limit:    filter.Limit,
		Skip:     filter.Skip,
	}))
}

// GetPackage godoc
// @Summary Получить пакет по ID
// @Tags packages
// @Produce json
// @Param id path string true "UUID пакета"
// @Success 200 {object} response.Response{data=models.TravelPackage}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/packages/{id} [get]
func (r *Routers) GetPackage(c echo.Context) error {
	const op = "http.routers.GetPackage"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", ErrInvalidUUID.Error()))
	}

	pkg, err := r.PackageService.GetPackageByID(c.Request().Context(), id)
	if err != nil {
		return r.writeError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(pkg))
}

// GetPackageBySlug godoc
// @Summary Получить активный пакет по slug
// @Tags packages
// @Produce json
// @Param slug path string true "Slug пакета"
// @Success 200 {object} response.Response{data=models.TravelPackage}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/packages/slug/{slug} [get]
func (r *Routers) GetPackageBySlug(c echo.Context) error {
	const op = "http.routers.GetPackageBySlug"

	log := r.log.With(slog.String("op", op))

	pkg, err := r.PackageService.GetPackageBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return r.writeError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(pkg))
}

// UpdatePackage godoc
// @Summary Обновить пакет
// @Description Частичное обновление; не указанные поля не меняются
// @Tags packages
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "UUID пакета"
// @Success 200 {object} response.Response{data=models.TravelPackage}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/packages/{id} [put]
func (r *Routers) UpdatePackage(c echo.Context) error {
	const op = "http.routers.UpdatePackage"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", ErrInvalidUUID.Error()))
	}

	var req dto.UpdatePackageRequest
	thumbnail, err := r.bindContentForm(c, &req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	pkg, err := r.PackageService.UpdatePackage(c.Request().Context(), id, req, thumbnail)
	if err != nil {
		return r.writeError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(pkg))
}

// DeletePackage godoc
// @Summary Удалить пакет
// @Tags packages
// @Produce json
// @Param id path string true "UUID пакета"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /api/packages/{id} [delete]
func (r *Routers) DeletePackage(c echo.Context) error {
	const op = "http.routers.DeletePackage"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", ErrInvalidUUID.Error()))
	}

	if err := r.PackageService.DeletePackage(c.Request().Context(), id); err != nil {
		return r.writeError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "package deleted"})
}

// CreateBlog godoc
// @Summary Создать статью блога
// @Tags blogs
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} response.Response{data=models.Blog}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/blogs [post]
func (r *Routers) CreateBlog(c echo.Context) error {
	const op = "http.routers.CreateBlog"

	log := r.log.With(slog.String("op", op))

	var req dto.CreateBlogRequest
	thumbnail, err := r.bindContentForm(c, &req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	blog, err := r.BlogService.CreateBlog(c.Request().Context(), req, thumbnail)
	if err != nil {
		return r.writeError(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(blog))
}

// ListBlogs godoc
// @Summary Список статей
// @Description Публичный список; по умолчанию только опубликованные статьи
// @Tags blogs
// @Produce json
// @Param isPublished query bool false "Фильтр по публикации (по умолчанию true)"
// @Param isFeatured query bool false "Только избранные"
// @Param category query string false "Категория"
// @Param tags query string false "Теги через запятую"
// @Param limit query int false "Размер страницы"
// @Param skip query int false "Смещение"
// @Success 200 {object} response.Response{data=dto.BlogListResponse}
// @Router /api/blogs [get]
func (r *Routers) ListBlogs(c echo.Context) error {
	const op = "http.routers.ListBlogs"

	log := r.log.With(slog.String("op", op))

	var tags []string
	if raw := c.QueryParam("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	filter := repository.BlogFilter{
		IsPublished: parseBoolParam(c.QueryParam("isPublished"), boolPtr(true)),
		IsFeatured:  parseBoolParam(c.QueryParam("isFeatured"), nil),
		Category:    c.QueryParam("category"),
		Tags:        tags,
		Limit:       parseIntParam(c.QueryParam("limit"), 0),
		Skip:        parseIntParam(c.QueryParam("skip"), 0),
	}

	blogs, err := r.BlogService.ListBlogs(c.Request().Context(), filter)
	if err != nil {
		return r.writeError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.BlogListResponse{
		Blogs: blogs,
		Total: len(blogs),
		Limit: filter.Limit,
		Skip:  filter.Skip,
	}))
}

// GetBlog godoc
// @Summary Получить статью по ID
// @Tags blogs
// @Produce json
// @Param id path string true "UUID статьи"
// @Success 200 {object} response.Response{data=models.Blog}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/blogs/{id} [get]
func (r *Routers) GetBlog(c echo.Context) error {
	const op = "http.routers.GetBlog"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", ErrInvalidUUID.Error()))
	}

	blog, err := r.BlogService.GetBlogByID(c.Request().Context(), id)
	if err != nil {
		return r.writeError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(blog))
}

// GetBlogBySlug godoc
// @Summary Получить опубликованную статью по slug
// @Tags blogs
// @Produce json
// @Param slug path string true "Slug статьи"
// @Success 200 {object} response.Response{data=models.Blog}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/blogs/slug/{slug} [get]
func (r *Routers) GetBlogBySlug(c echo.Context) error {
	const op = "http.routers.GetBlogBySlug"

	log := r.log.With(slog.String("op", op))

	blog, err := r.BlogService.GetBlogBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return r.writeError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(blog))
}

// UpdateBlog godoc
// @Summary Обновить статью
// @Tags blogs
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "UUID статьи"
// @Success 200 {object} response.Response{data=models.Blog}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/blogs/{id} [put]
func (r *Routers) UpdateBlog(c echo.Context) error {
	const op = "http.routers.UpdateBlog"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", ErrInvalidUUID.Error()))
	}

	var req dto.UpdateBlogRequest
	thumbnail, err := r.bindContentForm(c, &req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	blog, err := r.BlogService.UpdateBlog(c.Request().Context(), id, req, thumbnail)
	if err != nil {
		return r.writeError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(blog))
}

// IncrementBlogViews godoc
// @Summary Увеличить счетчик просмотров
// @Tags blogs
// @Produce json
// @Param id path string true "UUID статьи"
// @Success 200 {object} response.Response{data=map[string]int64}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/blogs/{id} [patch]
func (r *Routers) IncrementBlogViews(c echo.Context) error {
	const op = "http.routers.IncrementBlogViews"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", ErrInvalidUUID.Error()))
	}

	views, err := r.BlogService.IncrementViews(c.Request().Context(), id)
	if err != nil {
		return r.writeError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]int64{"views": views}))
}

// DeleteBlog godoc
// @Summary Удалить статью
// @Tags blogs
// @Produce json
// @Param id path string true "UUID статьи"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /api/blogs/{id} [delete]
func (r *Routers) DeleteBlog(c echo.Context) error {
	const op = "http.routers.DeleteBlog"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", ErrInvalidUUID.Error()))
	}

	if err := r.BlogService.DeleteBlog(c.Request().Context(), id); err != nil {
		return r.writeError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "blog deleted"})
}

// CreateQuery godoc
// @Summary Отправить обращение с контактной формы
// @Tags queries
// @Accept json
// @Produce json
// @Param request body dto.CreateQueryRequest true "Обращение"
// @Success 201 {object} response.Response{data=models.Query}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/queries [post]
func (r *Routers) CreateQuery(c echo.Context) error {
	const op = "http.routers.CreateQuery"

	log := r.log.With(slog.String("op", op))

	var req dto.CreateQueryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	query, err := r.QueryService.CreateQuery(c.Request().Context(), req)
	if err != nil {
		return r.writeError(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(query))
}

// ListQueries godoc
// @Summary Список обращений
// @Tags queries
// @Produce json
// @Param status query string false "Статус pending или resolved"
// @Param email query string false "Точный email"
// @Param limit query int false "Размер страницы"
// @Param skip query int false "Смещение"
// @Success 200 {object} response.Response{data=dto.QueryListResponse}
// @Router /api/queries [get]
func (r *Routers) ListQueries(c echo.Context) error {
	const op = "http.routers.ListQueries"

	log := r.log.With(slog.String("op", op))

	filter := repository.QueryFilter{
		Status: models.QueryStatus(c.QueryParam("status")),
		Email:  c.QueryParam("email"),
		Limit:  parseIntParam(c.QueryParam("limit"), 0),
		Skip:   parseIntParam(c.QueryParam("skip"), 0),
	}

	queries, err := r.QueryService.ListQueries(c.Request().Context(), filter)
	if err != nil {
		return r.writeError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.QueryListResponse{
		Queries: queries,
		Total:   len(queries),
		Limit:   filter.Limit,
		Skip:    filter.Skip,
	}))
}

// GetQuery godoc
// @Summary Получить обращение по ID
// @Tags queries
// @Produce json
// @Param id path string true "UUID обращения"
// @Success 200 {object} response.Response{data=models.Query}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/queries/{id} [get]
func (r *Routers) GetQuery(c echo.Context) error {
	const op = "http.routers.GetQuery"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", ErrInvalidUUID.Error()))
	}

	query, err := r.QueryService.GetQueryByID(c.Request().Context(), id)
	if err != nil {
		return r.writeError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(query))
}

// UpdateQueryStatus godoc
// @Summary Сменить статус обращения
// @Tags queries
// @Accept json
// @Produce json
// @Param id path string true "UUID обращения"
// @Param request body dto.UpdateQueryStatusRequest true "Новый статус"
// @Success 200 {object} response.Response{data=models.Query}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/queries/{id} [patch]
func (r *Routers) UpdateQueryStatus(c echo.Context) error {
	const op = "http.routers.UpdateQueryStatus"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", ErrInvalidUUID.Error()))
	}

	var req dto.UpdateQueryStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	query, err := r.QueryService.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return r.writeError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(query))
}

// DeleteQuery godoc
// @Summary Удалить обращение
// @Tags queries
// @Produce json
// @Param id path string true "UUID обращения"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /api/queries/{id} [delete]
func (r *Routers) DeleteQuery(c echo.Context) error {
	const op = "http.routers.DeleteQuery"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", ErrInvalidUUID.Error()))
	}

	if err := r.QueryService.DeleteQuery(c.Request().Context(), id); err != nil {
		return r.writeError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "query deleted"})
}

// AdminDashboard godoc
// @Summary Сводка для панели администратора
// @Tags admin
// @Produce json
// @Success 200 {object} response.Response{data=map[string]int}
// @Router /admin/dashboard [get]
func (r *Routers) AdminDashboard(c echo.Context) error {
	const op = "http.routers.AdminDashboard"

	log := r.log.With(slog.String("op", op))
	ctx := c.Request().Context()

	packages, err := r.PackageService.CountPackages(ctx)
	if err != nil {
		return r.writeError(c, log, err)
	}

	blogs, err := r.BlogService.CountBlogs(ctx)
	if err != nil {
		return r.writeError(c, log, err)
	}

	queries, err := r.QueryService.CountQueries(ctx, "")
	if err != nil {
		return r.writeError(c, log, err)
	}

	pending, err := r.QueryService.CountQueries(ctx, models.QueryStatusPending)
	if err != nil {
		return r.writeError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]int{
		"packages":       packages,
		"blogs":          blogs,
		"queries":        queries,
		"pendingQueries": pending,
	}))
}

// AdminListPackages возвращает все пакеты без фильтра активности
func (r *Routers) AdminListPackages(c echo.Context) error {
	const op = "http.routers.AdminListPackages"

	log := r.log.With(slog.String("op", op))

	packages, err := r.PackageService.ListPackages(c.Request().Context(), repository.PackageFilter{})
	if err != nil {
		return r.writeError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(packages))
}

// AdminListBlogs возвращает все статьи, включая черновики
func (r *Routers) AdminListBlogs(c echo.Context) error {
	const op = "http.routers.AdminListBlogs"

	log := r.log.With(slog.String("op", op))

	blogs, err := r.BlogService.ListBlogs(c.Request().Context(), repository.BlogFilter{})
	if err != nil {
		return r.writeError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(blogs))
}

// AdminListQueries возвращает все обращения
func (r *Routers) AdminListQueries(c echo.Context) error {
	const op = "http.routers.AdminListQueries"

	log := r.log.With(slog.String("op", op))

	queries, err := r.QueryService.ListQueries(c.Request().Context(), repository.QueryFilter{})
	if err != nil {
		return r.writeError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(queries))
}

// AdminLoginPage заглушка страницы входа: фронтенд рендерит форму сам
func (r *Routers) AdminLoginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "login required"})
}

// bindContentForm разбирает запрос на создание/обновление контента.
// Multipart-форма несет JSON в поле data и файл в поле thumbnail;
// обычный JSON-запрос принимается без файла.
func (r *Routers) bindContentForm(c echo.Context, dst interface{}) (*multipart.FileHeader, error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)

	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		data := c.FormValue("data")
		if data == "" {
			return nil, errors.New("missing data field")
		}
		if err := json.Unmarshal([]byte(data), dst); err != nil {
			return nil, err
		}

		file, err := c.FormFile("thumbnail")
		if err != nil {
			return nil, nil //nolint:nilerr // форма без файла допустима при обновлении
		}
		return file, nil
	}

	if err := c.Bind(dst); err != nil {
		return nil, err
	}
	return nil, nil
}

// writeError переводит доменные ошибки в HTTP-статусы.
// Неожиданные ошибки логируются с деталями, клиенту уходит общий ответ.
func (r *Routers) writeError(c echo.Context, log *slog.Logger, err error) error {
	var vErr *models.ValidationError
	if errors.As(err, &vErr) {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", strings.Join(vErr.Errors, "; ")))
	}

	switch {
	case errors.Is(err, storage.ErrSlugExists):
		return c.JSON(http.StatusBadRequest, response.ErrSlugTaken)
	case errors.Is(err, storage.ErrFileTooLarge),
		errors.Is(err, storage.ErrInvalidFileType):
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_file", err.Error()))
	case errors.Is(err, storage.ErrPackageNotFound),
		errors.Is(err, storage.ErrBlogNotFound),
		errors.Is(err, storage.ErrQueryNotFound):
		return c.JSON(http.StatusNotFound, response.ErrNotFound)
	}

	log.Error("request failed", sl.Err(err))

	return c.JSON(http.StatusInternalServerError, response.ErrInternal)
}

func parseBoolParam(raw string, def *bool) *bool {
	if raw == "" {
		return def
	}
	if raw == "all" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return &v
}

func parseIntParam(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func boolPtr(b bool) *bool {
	return &b
}
