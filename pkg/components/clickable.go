package components

// ClickableComponent 标记实体可以被点击选中
// 对折线而言，点击区域由其线段碰撞体决定，PickRadius 为额外的容差
type ClickableComponent struct {
	PickRadius float64 // 点击容差（世界单位）
	IsEnabled  bool    // 是否可以被点击(碰撞回弹期间禁用)
}
