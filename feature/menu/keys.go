package menu

// Cache keys are the logical resource paths of the cached objects. Every key
// below a menu shares that menu's path as a lexical prefix, so a single
// DeleteByPrefix on the menu path evicts the menu, its submenu list, every
// submenu, every dish list and every dish beneath it.
const (
	keyAllMenus = "/menus"
	keyFullTree = "/fullbase"
)

func menuKey(menuID string) string {
	return keyAllMenus + "/" + menuID
}

func submenusKey(menuID string) string {
	return menuKey(menuID) + "/submenus"
}

func submenuKey(menuID, submenuID string) string {
	return submenusKey(menuID) + "/" + submenuID
}

func dishesKey(menuID, submenuID string) string {
	return submenuKey(menuID, submenuID) + "/dishes"
}

func dishKey(menuID, submenuID, dishID string) string {
	return dishesKey(menuID, submenuID) + "/" + dishID
}
